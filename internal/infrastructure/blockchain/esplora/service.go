package esplora

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/custodex/reconcilerd/internal/core/ports"
	"github.com/custodex/reconcilerd/pkg/circuitbreaker"
	"github.com/custodex/reconcilerd/pkg/httputil"
)

const (
	defaultRequestsPerSecond = 10
	defaultPrecision         = 8
)

// esplora implements the chain adapter port on top of an esplora-style REST
// API (electrs). It serves the chain's single native currency.
type esplora struct {
	apiURL     string
	client     *httputil.Client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
	precision  int32
	currencyID string
	whitelist  []string
}

// ServiceOpts defines the parameters needed for creating an esplora adapter
// with NewService.
type ServiceOpts struct {
	Endpoint          string
	RequestTimeout    time.Duration
	RequestsPerSecond int
	// Precision is the number of decimals of the chain's base unit, 8 if
	// left zero.
	Precision int32
}

// NewService returns an esplora service as a ports.BlockchainAdapter. It
// fails if the endpoint does not answer the health check.
func NewService(opts ServiceOpts) (ports.BlockchainAdapter, error) {
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	precision := opts.Precision
	if precision <= 0 {
		precision = defaultPrecision
	}

	service := &esplora{
		apiURL:    opts.Endpoint,
		client:    httputil.NewClient(opts.RequestTimeout),
		cb:        circuitbreaker.NewCircuitBreaker("esplora"),
		limiter:   ratelimit.New(rps),
		precision: precision,
	}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (e *esplora) Configure(settings ports.AdapterSettings) error {
	if len(settings.Currencies) != 1 {
		return errors.New("esplora adapter serves exactly one native currency")
	}
	e.currencyID = settings.Currencies[0].ID
	e.whitelist = settings.Whitelist

	if settings.Endpoint != "" && settings.Endpoint != e.apiURL {
		e.apiURL = settings.Endpoint
		return e.healthCheck()
	}
	return nil
}

func (e *esplora) Features() ports.Features {
	return ports.Features{
		CaseSensitive:  true,
		CashAddrFormat: false,
		TxDetailLookup: true,
		TxSourceLookup: true,
	}
}

func (e *esplora) healthCheck() error {
	url := fmt.Sprintf("%s/blocks/tip/height", e.apiURL)
	_, err := e.get(context.Background(), url)
	return err
}

// get performs a rate-limited GET behind the circuit breaker and returns the
// response body on 200.
func (e *esplora) get(ctx context.Context, url string) (string, error) {
	e.limiter.Take()

	iResp, err := e.cb.Execute(func() (interface{}, error) {
		status, resp, err := e.client.Get(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("esplora: %s", resp)
		}
		return resp, nil
	})
	if err != nil {
		return "", err
	}

	return iResp.(string), nil
}
