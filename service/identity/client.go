package identity

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultCacheTTL = time.Minute
)

type ClientCfg struct {
	HttpClient http.Client
	BaseUrl    string
	Timeout    time.Duration
	// CacheTTL bounds how long a role answer is reused
	CacheTTL time.Duration
	// CacheSizeMB sizes the in process cache
	CacheSizeMB int
}

type eligibilityResp struct {
	Eligible bool `json:"eligible"`
}

type sellerResp struct {
	Seller bool `json:"seller"`
}
