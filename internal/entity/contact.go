package entity

import (
	"regexp"
	"strings"
)

var (
	whatsappSuffix = regexp.MustCompile(`@s\.whatsapp\.net$`)
	nonDigits      = regexp.MustCompile(`\D`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// CleanPhone remove o sufixo de JID do WhatsApp e espaços, mantendo o formato original.
func CleanPhone(raw string) *string {
	if raw == "" {
		return nil
	}
	cleaned := strings.TrimSpace(whatsappSuffix.ReplaceAllString(raw, ""))
	return &cleaned
}

// CleanPhoneForComparison devolve apenas os dígitos do telefone.
func CleanPhoneForComparison(raw string) string {
	if raw == "" {
		return ""
	}
	return nonDigits.ReplaceAllString(whatsappSuffix.ReplaceAllString(raw, ""), "")
}

// FormatPhone formata números brasileiros para exibição.
func FormatPhone(raw string) string {
	if raw == "" {
		return "-"
	}
	d := nonDigits.ReplaceAllString(raw, "")
	switch {
	case len(d) == 13 && strings.HasPrefix(d, "55"):
		return "+" + d[:2] + " (" + d[2:4] + ") " + d[4:9] + "-" + d[9:]
	case len(d) == 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
	return raw
}

// IsValidEmail é uma checagem sintática simples, não RFC 5322.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}
