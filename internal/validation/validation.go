package validation

import (
	"regexp"
	"strings"
)

// Допустимые форматы телефона: "+<1-3 цифры><4+ цифр>" без разделителей
// или "DDD-DDD-DDDD".
var phoneRE = regexp.MustCompile(`^(\+\d{1,3}\d{4,}|\d{3}-\d{3}-\d{4})$`)

// Phone проверяет формат телефона. Пустой или отсутствующий телефон валиден.
func Phone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneRE.MatchString(phone)
}

// NormalizeName убирает окружающие пробелы
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail приводит email к каноническому виду перед проверкой
// уникальности и сохранением
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Quantity проверяет, что количество положительное
func Quantity(q int64) bool {
	return q >= 1
}
