package payment

import (
	"errors"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

var (
	// ErrDeclined is returned for 4xx answers, retrying will not help
	ErrDeclined = errors.New("payment provider declined the request")
)

type ClientCfg struct {
	HttpClient http.Client
	BaseUrl    string
	Timeout    time.Duration
}

type verifiedResp struct {
	Verified bool `json:"verified"`
}
