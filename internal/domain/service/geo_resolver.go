package service

import "context"

// Location はIPアドレスから推定した地域です
// 解決できない場合は両方とも空文字です
type Location struct {
	Country string
	State   string
}

// LocalLocation はループバックやプライベートアドレスに割り当てる地域です
var LocalLocation = Location{Country: "Local", State: "Development"}

// GeoResolver はIPアドレスの地域を解決します
// 失敗時もエラーを返さず、空の Location を返します
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) Location
}
