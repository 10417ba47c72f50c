package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
)

// HeaderSourceType は操作の発生元(API / Frontend)を示すヘッダーです
const HeaderSourceType = "X-Source-Type"

// RequestOrigin は操作履歴の記録に使うリクエスト情報を組み立てます
// echo の RealIP は使わず、IPヘッダーチェーンをそのまま渡します
func RequestOrigin(c echo.Context) entity.RequestOrigin {
	req := c.Request()

	headers := make(map[string]string, len(entity.IPHeaderChain))
	for _, name := range entity.IPHeaderChain {
		if v := req.Header.Get(name); v != "" {
			headers[name] = v
		}
	}

	return entity.RequestOrigin{
		Principal:  GetPrincipal(c),
		Headers:    headers,
		RemoteAddr: req.RemoteAddr,
		UserAgent:  req.UserAgent(),
		SourceType: req.Header.Get(HeaderSourceType),
	}
}
