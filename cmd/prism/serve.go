package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prismdash/prism/internal/auth"
	"github.com/prismdash/prism/internal/config"
	"github.com/prismdash/prism/internal/httpapi"
	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/panel"
	"github.com/prismdash/prism/internal/plugins"
	"github.com/prismdash/prism/internal/relay"
	"github.com/prismdash/prism/internal/session"
	"github.com/prismdash/prism/internal/store"
	"github.com/prismdash/prism/internal/subuser"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logging.SetDebug(cfg.Debug)

			st, err := store.Open(cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			panelClient := panel.New(panel.Options{
				Domain:  cfg.Pterodactyl.Domain,
				APIKey:  cfg.Pterodactyl.ClientKey,
				Timeout: cfg.HTTP.FetchTimeout,
			})

			relayMgr := &relay.Manager{
				Creds:       panelClient.WebsocketCredentials,
				Dial:        relay.NewDialer(cfg.Pterodactyl.Domain),
				Timeout:     cfg.Relay.SessionTimeout,
				CommandWait: cfg.Relay.CommandWait,
			}

			handler, err := httpapi.NewHandler(httpapi.Deps{
				Store:    st,
				Panel:    panelClient,
				Auth:     &auth.Authorizer{Resolver: panelClient, Records: st},
				Sessions: &session.Manager{Store: st},
				Relay:    relayMgr,
				Sync:     &subuser.Synchronizer{Panel: panelClient, Store: st},
				Plugins:  plugins.New("", cfg.HTTP.FetchTimeout),
				Options: httpapi.Options{
					CommandWait:    cfg.Relay.CommandWait,
					RequestTimeout: cfg.HTTP.FetchTimeout,
				},
			})
			if err != nil {
				// A module manifest that does not match this build is not
				// recoverable at runtime.
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			logging.Infof("listening on http://%s", cfg.Listen)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logging.Infof("shutdown signal received")

				shCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shCtx); err != nil {
					logging.Errorf("graceful shutdown failed: %v", err)
					_ = srv.Close()
				}

				err := <-errCh
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to prism.toml")
	return cmd
}
