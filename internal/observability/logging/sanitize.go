package logging

import (
	"regexp"
)

var (
	// STRATZ の JWT (header.payload.signature)
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// KOOK の Authorization ヘッダ
	botTokenPattern = regexp.MustCompile(`Bot [A-Za-z0-9/+=._-]{8,}`)

	// Discord webhook URL の末尾トークン
	webhookTokenPattern = regexp.MustCompile(`(/api/webhooks/\d+/)[A-Za-z0-9_-]+`)

	// データベースパスワードパターン（DSN内）
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks credentials in arbitrary text such as a URL.
func SanitizeString(msg string) string {
	msg = jwtPattern.ReplaceAllString(msg, "eyJ****")
	msg = botTokenPattern.ReplaceAllString(msg, "Bot ****")
	msg = webhookTokenPattern.ReplaceAllString(msg, "${1}****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
