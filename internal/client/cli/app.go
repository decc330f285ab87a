// Package cli implements the interactive Manana client: a small REPL over
// the HTTP API with a locally mirrored task list.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/CS-Kiran/Manana/internal/client/api"
	"github.com/CS-Kiran/Manana/internal/client/config"
	tasksync "github.com/CS-Kiran/Manana/internal/client/sync"
	"github.com/CS-Kiran/Manana/internal/server/models"
)

type App struct {
	config *config.Config
	api    api.Client
	store  *tasksync.Store
	reader *bufio.Reader

	// lastView maps the numbers printed by List to task ids, so commands
	// like "done 2" operate on what the user last saw.
	lastView []*models.Task
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := api.NewHTTPClient(c)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		api:    apiClient,
		store:  tasksync.NewStore(apiClient),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.IsAuthenticated()
}

func (a *App) Run(ctx context.Context) {

	if a.isLoggedIn() {
		if err := a.store.Refresh(ctx); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				log.Printf("Session expired, please log in again")
				_ = a.api.Logout()
			} else {
				log.Printf("Could not load tasks: %s", err.Error())
			}
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) statusLine() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	st := a.store.Stats()
	return fmt.Sprintf("%d tasks, %d done", st.Total, st.Completed)
}
