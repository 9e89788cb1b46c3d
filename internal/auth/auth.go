package auth

import "crypto/subtle"

// HeaderName задаёт заголовок, в котором провайдер передаёт общий секрет
const HeaderName = "X-API-Key"

// Verifier проверяет общий секрет вебхука
type Verifier struct {
	apiKey string
}

func NewVerifier(apiKey string) *Verifier {
	return &Verifier{apiKey: apiKey}
}

// Verify сверяет полученный ключ с настроенным секретом.
// Возвращает причину отказа в формулировках, которые дальше попадают в лог.
func (v *Verifier) Verify(received string) (bool, string) {
	if v.apiKey == "" {
		return false, "API key not configured"
	}

	if received == "" {
		return false, "Missing X-API-Key header"
	}

	// Сравнение за константное время, чтобы не подсвечивать длину совпавшего префикса
	if subtle.ConstantTimeCompare([]byte(received), []byte(v.apiKey)) != 1 {
		return false, "Invalid API key"
	}

	return true, "Verified"
}
