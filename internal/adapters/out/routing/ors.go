// Package routing implements the travel cost provider against an
// OpenRouteService-compatible API: the matrix endpoint for pairwise travel
// costs, the directions endpoint for per-leg path geometry, and geocode
// search for address resolution.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

const directionsConcurrency = 4

// ORSProvider implements ports.TravelCostProvider using OpenRouteService.
// Safe for concurrent use.
type ORSProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

// NewORSProvider creates a provider against the given base URL. The timeout
// bounds every individual HTTP call.
func NewORSProvider(baseURL, apiKey string, timeout time.Duration) (*ORSProvider, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("routing base URL")
	}
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("routing api key")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ORSProvider{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Matrix fetches pairwise travel costs for one routing profile, depot first,
// then destinations in the given order. Leg geometries come from the
// directions endpoint; a missing geometry fails the whole matrix so callers
// see one consistent provider answer per cluster.
func (p *ORSProvider) Matrix(ctx context.Context, profile string, depot kernel.GeoPoint, destinations []kernel.GeoPoint) (services.CostMatrix, error) {
	if profile == "" {
		return services.CostMatrix{}, errs.NewValueIsRequiredError("routing profile")
	}

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, []float64{depot.Longitude(), depot.Latitude()})
	for _, d := range destinations {
		locations = append(locations, []float64{d.Longitude(), d.Latitude()})
	}

	metrics, err := p.fetchMatrix(ctx, profile, locations)
	if err != nil {
		return services.CostMatrix{}, errs.NewProviderUnavailableError("matrix", err)
	}

	geometries, err := p.fetchGeometries(ctx, profile, locations)
	if err != nil {
		return services.CostMatrix{}, errs.NewProviderUnavailableError("directions", err)
	}
	metrics.Geometries = geometries

	return metrics, nil
}

// Geocode resolves a street address to coordinates via geocode search.
func (p *ORSProvider) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	normalized := strings.Join(strings.Fields(address), " ")
	if normalized == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	endpoint := p.baseURL + "/geocode/search"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, reqErr := p.newRequest(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return nil, reqErr
		}
		q := req.URL.Query()
		q.Set("text", normalized)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return kernel.GeoPoint{}, errs.NewProviderUnavailableError("geocode", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return kernel.GeoPoint{}, errs.NewProviderUnavailableError("geocode", err)
	}

	if len(decoded.Features) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("address", normalized)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return kernel.GeoPoint{}, errs.NewProviderUnavailableError("geocode",
			fmt.Errorf("invalid coordinate format for %q", normalized))
	}

	return kernel.NewGeoPoint(coords[1], coords[0])
}

func (p *ORSProvider) fetchMatrix(ctx context.Context, profile string, locations [][]float64) (services.CostMatrix, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", p.baseURL, profile)

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
	})
	if err != nil {
		return services.CostMatrix{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return services.CostMatrix{}, err
	}
	defer resp.Body.Close()

	var decoded matrixResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return services.CostMatrix{}, fmt.Errorf("decode matrix response: %w", err)
	}

	size := len(locations)
	if len(decoded.Distances) != size || len(decoded.Durations) != size {
		return services.CostMatrix{}, fmt.Errorf(
			"matrix size mismatch: want %d rows, got distances=%d durations=%d",
			size, len(decoded.Distances), len(decoded.Durations))
	}

	matrix := services.CostMatrix{
		Distances: make([][]float64, size),
		Durations: make([][]time.Duration, size),
	}
	for i := range size {
		if len(decoded.Distances[i]) != size || len(decoded.Durations[i]) != size {
			return services.CostMatrix{}, fmt.Errorf("matrix row %d has wrong length", i)
		}

		matrix.Distances[i] = make([]float64, size)
		matrix.Durations[i] = make([]time.Duration, size)
		for j := range size {
			meters := decoded.Distances[i][j]
			seconds := decoded.Durations[i][j]
			if meters == nil || seconds == nil {
				return services.CostMatrix{}, fmt.Errorf("no road connection between %d and %d", i, j)
			}
			matrix.Distances[i][j] = *meters
			matrix.Durations[i][j] = time.Duration(*seconds * float64(time.Second))
		}
	}

	return matrix, nil
}

// fetchGeometries fetches encoded path geometry for every ordered pair of
// locations, fanning out directions calls with bounded concurrency.
func (p *ORSProvider) fetchGeometries(ctx context.Context, profile string, locations [][]float64) ([][]string, error) {
	size := len(locations)
	geometries := make([][]string, size)
	for i := range geometries {
		geometries[i] = make([]string, size)
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(directionsConcurrency)

	for from := range size {
		for to := range size {
			if from == to {
				continue
			}

			group.Go(func() error {
				geometry, err := p.fetchLeg(groupCtx, profile, locations[from], locations[to])
				if err != nil {
					return err
				}

				mu.Lock()
				geometries[from][to] = geometry
				mu.Unlock()
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return geometries, nil
}

func (p *ORSProvider) fetchLeg(ctx context.Context, profile string, from, to []float64) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s", p.baseURL, profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{from, to},
	})
	if err != nil {
		return "", fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return "", errors.New("directions returned no routes")
	}

	return decoded.Routes[0].Geometry, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (p *ORSProvider) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (p *ORSProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries a transient failure (network error, 429, 5xx) exactly
// once, immediately, while respecting context cancellation.
func (p *ORSProvider) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isTransient(err) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

func isTransient(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
