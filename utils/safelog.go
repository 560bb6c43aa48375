// utils/safelog.go
// ============================================================================
// SAFE LOGGING - Masque les données sensibles en production
// ============================================================================
// Les logs contiennent vite des emails d'adhérents, des numéros de licence et
// des montants de trésorerie. En production ces valeurs sont masquées.
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction détermine si on est en mode production
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	// LogLevel permet de filtrer les logs (DEBUG, INFO, WARN, ERROR)
	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ============================================================================
// PATTERNS DE MASQUAGE
// ============================================================================

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Montants avec devise ("150€", "49.90 EUR")
	amountWithCurrencyRegex = regexp.MustCompile(`\b\d+([.,]\d{1,2})?\s*(€|EUR)\b`)

	// Numéros de licence fédérale ("A12345", "Z123456")
	licenseRegex = regexp.MustCompile(`\b[A-Z]\d{5,6}\b`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// FONCTIONS DE MASQUAGE
// ============================================================================

// MaskString masque les données sensibles dans une chaîne
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := input
	result = emailRegex.ReplaceAllString(result, "***@***.***")
	result = amountWithCurrencyRegex.ReplaceAllString(result, "***€")
	result = licenseRegex.ReplaceAllString(result, "L-*****")

	// Raccourcir les UUIDs
	result = uuidRegex.ReplaceAllStringFunc(result, func(uuid string) string {
		if len(uuid) > 8 {
			return uuid[:8] + "..."
		}
		return "***"
	})

	return result
}

// MaskAmount masque un montant financier
func MaskAmount(amount float64) string {
	if IsProduction {
		return "***"
	}
	return fmt.Sprintf("%.2f", amount)
}

// MaskEmail masque un email
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

// ============================================================================
// FONCTIONS DE LOGGING SÉCURISÉES
// ============================================================================

func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

func SafeDebug(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeInfo(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Printf("[INFO] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeWarn(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeError(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
}
