package entity

import (
	"net"
	"net/netip"
	"strings"
)

// MaxIPAddressLength は ip_address カラムの長さです
const MaxIPAddressLength = 64

// IPHeaderChain はクライアントIPの解決に使うヘッダーの優先順です
var IPHeaderChain = []string{
	"X-Forwarded-For",
	"Proxy-Client-IP",
	"WL-Proxy-Client-IP",
	"HTTP_CLIENT_IP",
	"HTTP_X_FORWARDED_FOR",
}

// RequestOrigin は操作を発生させたリクエストの情報です
type RequestOrigin struct {
	Principal  *Principal
	Headers    map[string]string // IPHeaderChain のヘッダー値
	RemoteAddr string
	UserAgent  string
	SourceType string
}

// ClientIP はヘッダーチェーンに従ってクライアントIPを解決します
// 空または "unknown" の値、IPアドレスとして解釈できない値は読み飛ばし、最後に接続元アドレスを使います
func (o RequestOrigin) ClientIP() string {
	for _, name := range IPHeaderChain {
		if ip := firstHop(o.Headers[name]); ip != "" {
			return ip
		}
	}
	if ip := normalizeIP(o.RemoteAddr); ip != "" {
		return ip
	}
	remote := stripPort(o.RemoteAddr)
	if len(remote) > MaxIPAddressLength {
		remote = remote[:MaxIPAddressLength]
	}
	return remote
}

// firstHop はリスト形式のヘッダー値から最初の有効なホップを返します
// 最初の空でないホップがIPアドレスでない場合、ヘッダー全体を無視します
func firstHop(value string) string {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "unknown") {
			continue
		}
		return normalizeIP(part)
	}
	return ""
}

// normalizeIP はポート付きを含むアドレス表記を正規化します
// 解釈できない場合は空文字を返します
func normalizeIP(value string) string {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		ap, perr := netip.ParseAddrPort(value)
		if perr != nil {
			return ""
		}
		addr = ap.Addr()
	}
	return addr.WithZone("").String()
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
