package loki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Loki represents an interface for retrieving request statistics from the addon logs.
type Loki interface {
	// GetCatalogRequests24 retrieves the total number of catalog requests served in the last 24 hours.
	GetCatalogRequests24(ctx context.Context) (int, error)
	// GetStreamRequests24 retrieves the total number of stream requests served in the last 24 hours.
	GetStreamRequests24(ctx context.Context) (int, error)
}

type addonLoki struct {
	httpClient    *http.Client
	lokiHost      string
	serviceName   string
	catalogSearch string
	streamSearch  string
}

// NewLoki creates a Loki client counting the log lines of serviceName.
// catalogSearch and streamSearch are the messages logged once per resolved catalog and stream request.
func NewLoki(lokiHost, serviceName, catalogSearch, streamSearch string) Loki {
	return &addonLoki{
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		lokiHost:      lokiHost,
		serviceName:   serviceName,
		catalogSearch: catalogSearch,
		streamSearch:  streamSearch,
	}
}

// GetCatalogRequests24 retrieves the total number of catalog requests served in the last 24 hours.
func (s *addonLoki) GetCatalogRequests24(ctx context.Context) (int, error) {
	return s.countLokiLogs(ctx, s.catalogSearch)
}

// GetStreamRequests24 retrieves the total number of stream requests served in the last 24 hours.
func (s *addonLoki) GetStreamRequests24(ctx context.Context) (int, error) {
	return s.countLokiLogs(ctx, s.streamSearch)
}

func (s *addonLoki) countLokiLogs(ctx context.Context, search string) (int, error) {
	url := s.lokiHost + "/loki/api/v1/query"
	query := fmt.Sprintf("sum(count_over_time({service_name=%q} |= `%s` [24h]))", s.serviceName, search)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to http.NewRequestWithContext: %w", err)
	}

	q := req.URL.Query()
	q.Add("query", query)
	req.URL.RawQuery = q.Encode()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to http.Client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	var lokiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&lokiResp); err != nil {
		return 0, fmt.Errorf("failed to json.Decoder.Decode: %w", err)
	}

	if lokiResp.Status != "success" {
		return 0, fmt.Errorf("loki response status: %s", lokiResp.Status)
	}

	if lokiResp.Data.ResultType != "vector" {
		return 0, fmt.Errorf("loki response data result type: %s", lokiResp.Data.ResultType)
	}

	// No matching lines yields an empty vector.
	if len(lokiResp.Data.Result) == 0 {
		return 0, nil
	}

	if len(lokiResp.Data.Result) != 1 {
		return 0, fmt.Errorf("loki response data result length: %d", len(lokiResp.Data.Result))
	}

	if len(lokiResp.Data.Result[0].Value) != 2 {
		return 0, fmt.Errorf("loki response data result value length: %d", len(lokiResp.Data.Result[0].Value))
	}

	value, ok := (lokiResp.Data.Result[0].Value[1]).(string)
	if !ok {
		return 0, fmt.Errorf("failed to assert value to string: %v", lokiResp.Data.Result[0].Value[1])
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to strconv.Atoi: %w", err)
	}

	return i, nil
}

// Response is the subset of a Loki instant query response the client reads.
type Response struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string `json:"resultType"`
		Result     []struct {
			Metric map[string]string `json:"metric"`
			Value  []interface{}     `json:"value"`
		} `json:"result"`
	} `json:"data"`
}
