package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gigzone/backend/internal/money"
)

// Константы валидации
const (
	MinUsernameLength       = 3
	MaxUsernameLength       = 30
	MinFullNameLength       = 2
	MaxFullNameLength       = 100
	MinGigTitleLength       = 3
	MaxGigTitleLength       = 200
	MinGigDescriptionLength = 10
	MaxGigDescriptionLength = 5000
	MinApplicationMessage   = 0
	MaxApplicationMessage   = 2000
	MaxBioLength            = 1000
	MaxLocationLength       = 100
	MaxSkillLength          = 50
	MaxSkillsCount          = 20
	MaxDurationHours        = 24 * 30
	MinMessageLength        = 1
	MaxMessageLength        = 5000
	MinReportDescription    = 10
	MaxReportDescription    = 2000

	// Бюджеты в центах, потолок 100 миллионов рандов.
	MaxBudgetCents = money.Cents(100_000_000_00)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateFullName проверяет отображаемое имя профиля.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("полное имя обязательно")
	}

	fullName = strings.TrimSpace(fullName)

	if err := ValidateLength("полное имя", fullName, MinFullNameLength, MaxFullNameLength); err != nil {
		return err
	}

	fullNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,'()]+$`)
	if !fullNameRegex.MatchString(fullName) {
		return fmt.Errorf("полное имя содержит недопустимые символы")
	}

	return nil
}

// ValidateGigTitle проверяет заголовок гига.
func ValidateGigTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок гига обязателен")
	}

	title = strings.TrimSpace(title)

	return ValidateLength("заголовок гига", title, MinGigTitleLength, MaxGigTitleLength)
}

// ValidateGigDescription проверяет описание гига.
func ValidateGigDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание гига обязательно")
	}

	description = strings.TrimSpace(description)

	return ValidateLength("описание гига", description, MinGigDescriptionLength, MaxGigDescriptionLength)
}

// ValidateBudget проверяет бюджетную вилку гига в центах.
func ValidateBudget(budgetMin, budgetMax *money.Cents) error {
	if budgetMin != nil {
		if *budgetMin < 0 {
			return fmt.Errorf("минимальный бюджет не может быть отрицательным")
		}
		if *budgetMin > MaxBudgetCents {
			return fmt.Errorf("минимальный бюджет не может превышать %s", MaxBudgetCents)
		}
	}

	if budgetMax != nil {
		if *budgetMax < 0 {
			return fmt.Errorf("максимальный бюджет не может быть отрицательным")
		}
		if *budgetMax > MaxBudgetCents {
			return fmt.Errorf("максимальный бюджет не может превышать %s", MaxBudgetCents)
		}
	}

	if budgetMin != nil && budgetMax != nil {
		if *budgetMin > *budgetMax {
			return fmt.Errorf("минимальный бюджет не может быть больше максимального")
		}
	}

	return nil
}

// ValidateProposedRate проверяет предложенную ставку отклика.
func ValidateProposedRate(rate *money.Cents) error {
	if rate == nil {
		return nil
	}
	if *rate <= 0 {
		return fmt.Errorf("предложенная ставка должна быть положительной")
	}
	if *rate > MaxBudgetCents {
		return fmt.Errorf("предложенная ставка не может превышать %s", MaxBudgetCents)
	}
	return nil
}

// ValidateDurationHours проверяет ожидаемую длительность гига.
func ValidateDurationHours(hours *int) error {
	if hours == nil {
		return nil
	}
	if *hours <= 0 {
		return fmt.Errorf("длительность должна быть положительной")
	}
	if *hours > MaxDurationHours {
		return fmt.Errorf("длительность не может превышать %d часов", MaxDurationHours)
	}
	return nil
}

// ValidateSkills проверяет массив навыков.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("количество навыков не может превышать %d", MaxSkillsCount)
	}

	seen := make(map[string]bool)
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return fmt.Errorf("навык не может быть пустым")
		}

		if utf8.RuneCountInString(skill) > MaxSkillLength {
			return fmt.Errorf("навык не может быть длиннее %d символов", MaxSkillLength)
		}

		skillLower := strings.ToLower(skill)
		if seen[skillLower] {
			return fmt.Errorf("навык '%s' указан дважды", skill)
		}
		seen[skillLower] = true
	}

	return nil
}

// ValidateLocation проверяет местоположение.
func ValidateLocation(location *string) error {
	if location != nil && *location != "" {
		loc := strings.TrimSpace(*location)
		if err := ValidateLength("местоположение", loc, 0, MaxLocationLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBio проверяет биографию.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		bioStr := strings.TrimSpace(*bio)
		if err := ValidateLength("биография", bioStr, 0, MaxBioLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePhone проверяет телефон в южноафриканском формате.
// Принимаются номера вида +27XXXXXXXXX и 0XXXXXXXXX.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("телефон обязателен")
	}

	phone = strings.TrimSpace(phone)

	phoneRegex := regexp.MustCompile(`^(\+27|0)[1-9][0-9]{8}$`)
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("некорректный формат телефона")
	}

	return nil
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	if content == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}

	content = strings.TrimSpace(content)

	return ValidateLength("сообщение", content, MinMessageLength, MaxMessageLength)
}

// ValidateApplicationMessage проверяет сопроводительное сообщение отклика.
func ValidateApplicationMessage(message *string) error {
	if message != nil && *message != "" {
		msg := strings.TrimSpace(*message)
		if err := ValidateLength("сообщение отклика", msg, MinApplicationMessage, MaxApplicationMessage); err != nil {
			return err
		}
	}
	return nil
}

// ValidateReportDescription проверяет описание жалобы.
func ValidateReportDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание жалобы обязательно")
	}

	description = strings.TrimSpace(description)

	return ValidateLength("описание жалобы", description, MinReportDescription, MaxReportDescription)
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("оценка должна быть от 1 до 5")
	}
	return nil
}
