package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/q42jaap/opvault/internal/client/api"
)

// Create interactively collects attributes and field assignments and
// creates a new item.
func (a *App) Create(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	category, err := GetSimpleText(a.reader, "Category (e.g. Login)", a.out)
	if err != nil {
		return err
	}
	if category == "" {
		category = "Login"
	}
	url, err := GetSimpleText(a.reader, "URL (optional)", a.out)
	if err != nil {
		return err
	}
	generate, err := GetSimpleText(a.reader, "Generate password? (y/N)", a.out)
	if err != nil {
		return err
	}

	fields := GetAssignments(a.reader, a.out)

	created, err := a.client.CreateItem(ctx, api.CreateItemRequest{
		Vault:            a.config.Vault,
		Category:         category,
		Title:            title,
		URL:              url,
		GeneratePassword: strings.EqualFold(generate, "y"),
		Fields:           fields,
	})
	if err != nil {
		fmt.Fprintln(a.out, "create failed:", err)
		return err
	}

	fmt.Fprintf(a.out, "Created %q (%s), version %d\n", created.Title, created.ID, created.Version)
	return nil
}

// Show prints an item, or a field projection when a filter argument is
// given. Filters use the forms label=<name> or type=<name>.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: show <id> [label=<name>|type=<name>]...")
		return nil
	}
	id := args[0]

	var labels, types []string
	for _, arg := range args[1:] {
		switch {
		case strings.HasPrefix(arg, "label="):
			labels = append(labels, strings.TrimPrefix(arg, "label="))
		case strings.HasPrefix(arg, "type="):
			types = append(types, strings.TrimPrefix(arg, "type="))
		default:
			fmt.Fprintln(a.out, "ignoring unknown filter:", arg)
		}
	}

	if len(labels) == 0 && len(types) == 0 {
		it, err := a.client.GetItem(ctx, id)
		if err != nil {
			fmt.Fprintln(a.out, "show failed:", err)
			return err
		}
		return a.printJSON(it)
	}

	fields, single, err := a.client.FilterFields(ctx, id, labels, types)
	if err != nil {
		fmt.Fprintln(a.out, "show failed:", err)
		return err
	}
	if single {
		return a.printJSON(fields[0])
	}
	return a.printJSON(fields)
}

// Edit collects field assignments and merges them into the item.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return nil
	}

	fields := GetAssignments(a.reader, a.out)
	if len(fields) == 0 {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	edited, err := a.client.EditItem(ctx, args[0], api.EditItemRequest{Fields: fields})
	if err != nil {
		fmt.Fprintln(a.out, "edit failed:", err)
		return err
	}

	fmt.Fprintf(a.out, "Updated %q, version %d\n", edited.Title, edited.Version)
	return nil
}

// Delete removes an item.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return nil
	}

	if err := a.client.DeleteItem(ctx, args[0]); err != nil {
		fmt.Fprintln(a.out, "delete failed:", err)
		return err
	}

	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}
