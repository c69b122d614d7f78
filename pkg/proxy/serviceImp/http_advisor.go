package serviceImp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"plantcare/pkg/ai"
	"plantcare/pkg/proxy/service"
)

type httpAdvisor struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPAdvisor calls a remote deployment of the advice endpoint.
func NewHTTPAdvisor(baseURL, token string, timeout time.Duration) service.Advisor {
	return &httpAdvisor{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (a *httpAdvisor) Advise(ctx context.Context, req service.AdviceRequest) (*ai.Advice, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/advice", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		httpReq.Header.Set("X-Client-Token", a.token)
	}

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advice request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read advice response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ai.StatusError{Status: resp.StatusCode, Body: string(raw)}
	}
	return ai.ParseAdvice(string(raw))
}
