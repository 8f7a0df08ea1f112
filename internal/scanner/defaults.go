package scanner

import "github.com/custodia-labs/gitminer/internal/core/domain"

// DefaultPatterns returns the built-in generic patterns, in scan order.
func DefaultPatterns() []domain.PatternSpec {
	return []domain.PatternSpec{
		{Name: "EMAIL", Expr: `[a-zA-Z0-9.\-_+%]{1,64}@[a-zA-Z0-9.\-]{1,253}\.[a-zA-Z]{2,}`},
		{Name: "AWS_ACCESS_KEY_ID", Expr: `AKIA[0-9A-Z]{16}`},
		{Name: "GITHUB_TOKEN", Expr: `ghp_[A-Za-z0-9_]{36,255}`},
		{Name: "JWT", Expr: `eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`},
		{Name: "SSH_PRIVATE_KEY", Expr: `-----BEGIN (?:OPENSSH|RSA|DSA|EC|ENCRYPTED PRIVATE KEY)-----`},
		{Name: "URL_WITH_CREDENTIALS", Expr: `https?://[^/\s:@]+:[^@\s/]+@`},
		{Name: "BASE64_LONG", Expr: `\b(?:[A-Za-z0-9+/]{40,}={0,2})\b`},
		{Name: "HIGH_ENTROPY", Expr: `\b[A-Za-z0-9\-_]{30,}\b`},
	}
}

// DefaultLabels returns the built-in parameter-name labels, in scan order.
func DefaultLabels() []domain.LabelSpec {
	return []domain.LabelSpec{
		{Expr: `(?i)(ftp[_\- ]?user|ftpuser|ftp_login|ftp_username)`, Label: "FTP_USER"},
		{Expr: `(?i)(ftp[_\- ]?pass|ftppassword|ftp_password|ftp_pass)`, Label: "FTP_PASS"},
		{Expr: `(?i)(db[_\- ]?user|dbuser|db_username|database_user)`, Label: "DB_USER"},
		{Expr: `(?i)(db[_\- ]?pass|dbpassword|db_password|database_password)`, Label: "DB_PASSWORD"},
		{Expr: `(?i)(api[_\- ]?key|apikey|api_key|token)`, Label: "API_KEY"},
		{Expr: `(?i)(aws[_\- ]?access[_\- ]?key|aws_access_key_id)`, Label: "AWS_ACCESS_KEY"},
		{Expr: `(?i)(aws[_\- ]?secret|aws_secret_access_key)`, Label: "AWS_SECRET_KEY"},
		{Expr: `(?i)(password|passwd|pass)`, Label: "PASSWORD"},
		{Expr: `(?i)(username|user)`, Label: "USER"},
		{Expr: `(?i)(secret)`, Label: "SECRET"},
		{Expr: `(?i)(private[_\- ]?key|privatekey)`, Label: "PRIVATE_KEY"},
	}
}
