package portalclient

import (
	"net/url"
	"strings"
)

const fragmentTokenKey = "session_id"

// ParseFragmentToken はページURLのフラグメントからワンタイムトークンを取り出す。
// フラグメントはページロード時にサーバーへ送信されないため、
// トークンの受け渡しにはクエリパラメータではなくフラグメントを使う。
// トークンが無い場合は空文字列を返す。
func ParseFragmentToken(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Fragment == "" {
		return ""
	}

	values, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return ""
	}
	return values.Get(fragmentTokenKey)
}

// StripFragmentToken はページURLからトークンフラグメントを除去したURLを返す。
// トークン以外のフラグメントはそのまま残す。
func StripFragmentToken(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Fragment == "" {
		return pageURL
	}

	values, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return pageURL
	}
	if !values.Has(fragmentTokenKey) {
		return pageURL
	}
	values.Del(fragmentTokenKey)

	u.Fragment = ""
	if encoded := values.Encode(); encoded != "" {
		// url.Values.Encodeはキーをソートするため順序は元と異なることがある
		u.Fragment = encoded
	}
	return strings.TrimSuffix(u.String(), "#")
}
