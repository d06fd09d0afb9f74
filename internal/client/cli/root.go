package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return fmt.Sprintf("(%s@%s)>", a.config.AccountID, a.config.Vault)
	}
	return ">"
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Vault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	_ = a.Login(ctx)

	runREPL(ctx, a, a.getStatus, scanner)
}
