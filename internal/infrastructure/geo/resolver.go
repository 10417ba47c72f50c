package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// DefaultBaseURL はip-api.comのエンドポイントです
const DefaultBaseURL = "http://ip-api.com"

// IPAPIResolver はip-api.com形式のAPIでIPアドレスの地域を解決します
type IPAPIResolver struct {
	baseURL string
	client  *http.Client
}

// NewIPAPIResolver は新しいIPAPIResolverを作成します
func NewIPAPIResolver(baseURL string, timeout time.Duration) *IPAPIResolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &IPAPIResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type ipAPIResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	Message    string `json:"message"`
}

// Resolve はIPアドレスの国と地域を返します
// ローカルアドレスはネットワークにアクセスせず LocalLocation を返します
func (r *IPAPIResolver) Resolve(ctx context.Context, ip string) service.Location {
	if ip == "" {
		return service.Location{}
	}
	if IsLocal(ip) {
		return service.LocalLocation
	}

	loc, err := r.lookup(ctx, ip)
	if err != nil {
		logger.Debug(ctx, "geo lookup failed", "ip", ip, "error", err)
		return service.Location{}
	}
	return loc
}

func (r *IPAPIResolver) lookup(ctx context.Context, ip string) (service.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/json/"+url.PathEscape(ip), nil)
	if err != nil {
		return service.Location{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return service.Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return service.Location{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return service.Location{}, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status != "success" {
		return service.Location{}, fmt.Errorf("lookup status %q: %s", body.Status, body.Message)
	}

	return service.Location{Country: body.Country, State: body.RegionName}, nil
}

// 旧来の文字列前方一致による判定(パースできない値のみに適用)
var localPrefixes = []string{"127.0.0.1", "0:0:0:0:0:0:0:1", "192.168.", "10."}

// IsLocal はループバック、プライベート、リンクローカルのアドレスかを判定します
// 172.x は 172.16.0.0/12 の範囲のみをプライベートとして扱います
func IsLocal(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		for _, p := range localPrefixes {
			if strings.HasPrefix(ip, p) {
				return true
			}
		}
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}

// NopResolver は常に空の地域を返します
type NopResolver struct{}

// Resolve は空の Location を返します
func (NopResolver) Resolve(context.Context, string) service.Location {
	return service.Location{}
}

var (
	_ service.GeoResolver = (*IPAPIResolver)(nil)
	_ service.GeoResolver = NopResolver{}
)
