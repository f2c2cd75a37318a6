package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/anbar-api/internal/bootstrap"
	"github.com/jhoicas/anbar-api/pkg/config"
	"github.com/jhoicas/anbar-api/pkg/logger"
)

// openFunc abre el almacenamiento y arma los servicios.
type openFunc func(ctx context.Context) (*bootstrap.Services, bootstrap.Closer, error)

// openFromConfig usa la misma configuración (env/.env) que el servidor.
func openFromConfig(ctx context.Context) (*bootstrap.Services, bootstrap.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// La CLI solo informa avisos y errores, por stderr.
	log := logger.New(logger.Config{Env: "production", Level: "warn", Out: stderr, App: "anbarctl"})
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, log.Component("store"))
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.NewServices(store, cfg, log.Zerolog(), nil), closeStore, nil
}

// session servicios abiertos durante la ejecución de un comando.
type session struct {
	open  openFunc
	svc   *bootstrap.Services
	close bootstrap.Closer
}

// shutdown cierra el almacenamiento si se llegó a abrir. Se llama también cuando el comando falla.
func (s *session) shutdown() error {
	if s.close == nil {
		return nil
	}
	err := s.close()
	s.close = nil
	return err
}

func newRootCmd(open openFunc) (*cobra.Command, *session) {
	s := &session{open: open}
	root := &cobra.Command{
		Use:          "anbarctl",
		Short:        "Inventario de piezas electrónicas y lista de compras",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			svc, closer, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			s.svc, s.close = svc, closer
			return nil
		},
	}
	root.AddCommand(
		newImportCmd(s),
		newStockCmd(s),
		newPartsCmd(s),
		newHistoryCmd(s),
		newDashboardCmd(s),
		newShoppingCmd(s),
	)
	return root, s
}
