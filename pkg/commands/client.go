package commands

import (
	"go.uber.org/zap"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/session"
	"tableflip.dev/skej/pkg/store"
)

// newService loads config and local state and builds an authenticated
// client backed by the stored session.
func newService() (api.Service, *session.Store, store.Persistence, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	sess := session.New(p)
	sess.CheckAuth()

	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	svc := api.New(cfg.APIBase(), sess, api.WithLogger(logger))
	return svc, sess, p, nil
}
