package command

import (
	"fmt"

	"github.com/pixil98/go-coop/internal/client"
	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-coop/internal/tuning"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tn, err := tuning.Load(cfg.Tuning)
	if err != nil {
		return nil, err
	}

	reg, err := buildRegistry(cfg.Modules)
	if err != nil {
		return nil, fmt.Errorf("creating registry: %w", err)
	}

	w, err := cfg.Fixtures.buildWorld()
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	workers := service.WorkerList{}
	var opts []client.Opt

	if d := cfg.tickInterval(); d > 0 {
		opts = append(opts, client.WithTickLength(d))
	}
	if cfg.StartArea != "" {
		id, err := parseLocalId(cfg.StartArea)
		if err != nil {
			return nil, fmt.Errorf("parsing start_area: %w", err)
		}
		opts = append(opts, client.WithStartArea(id))
	}

	if j := cfg.Journal.build(); j != nil {
		opts = append(opts, client.WithJournal(j))
		workers["journal"] = j
	}

	ledger, err := cfg.Ledger.build()
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if ledger != nil {
		opts = append(opts, client.WithRecorder(ledger))
		workers["ledger"] = ledger
	}

	// The transport needs the driver as its poster, so it is built inside the client.
	var tr transportWorker
	var trErr error
	c := client.New(w, reg, tn, func(p session.Poster) session.Transport {
		tr, trErr = cfg.Transport.build(p)
		return tr
	}, opts...)
	if trErr != nil {
		return nil, fmt.Errorf("creating transport: %w", trErr)
	}

	workers["client"] = c
	workers["transport"] = tr

	return workers, nil
}
