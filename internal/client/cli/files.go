package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/q42jaap/opvault/internal/filex"
)

const downloadDir = "downloads"

// Attach uploads a local file as an item attachment. An optional third
// argument places the file inside a section.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: attach <id> <path> [section]")
		return nil
	}
	id, path := args[0], args[1]
	var section string
	if len(args) > 2 {
		section = args[2]
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(a.out, "read failed:", err)
		return err
	}

	updated, err := a.client.AttachFile(ctx, id, filepath.Base(path), content, section)
	if err != nil {
		fmt.Fprintln(a.out, "attach failed:", err)
		return err
	}

	last := updated.Files[len(updated.Files)-1]
	fmt.Fprintf(a.out, "Attached %q (%s), %d bytes\n", last.Name, last.ID, last.Size)
	return nil
}

// Fetch downloads an attachment into the local downloads directory.
func (a *App) Fetch(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: fetch <id> <fileID>")
		return nil
	}
	id, fileID := args[0], args[1]

	it, err := a.client.GetItem(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "fetch failed:", err)
		return err
	}

	name := fileID
	for _, f := range it.Files {
		if f.ID == fileID {
			name = f.Name
		}
	}

	content, err := a.client.DownloadFile(ctx, id, fileID)
	if err != nil {
		fmt.Fprintln(a.out, "fetch failed:", err)
		return err
	}

	dir, err := filex.EnsureSubdDir(downloadDir)
	if err != nil {
		fmt.Fprintln(a.out, "fetch failed:", err)
		return err
	}

	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, content, 0o600); err != nil {
		fmt.Fprintln(a.out, "write failed:", err)
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", target, len(content))
	return nil
}
