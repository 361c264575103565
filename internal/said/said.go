// Package said проверяет южноафриканские идентификационные номера (SA ID)
// и извлекает из них сведения о владельце.
//
// Формат номера: 13 цифр YYMMDD SSSS C A Z, где YYMMDD — дата рождения,
// SSSS — порядковый номер (от 5000 — мужчина), C — гражданство
// (0 — гражданин ЮАР, 1 — постоянный резидент), Z — контрольная цифра
// по алгоритму Луна.
package said

import (
	"errors"
	"fmt"
	"time"
)

const idLength = 13

var (
	ErrInvalidLength   = errors.New("said: номер должен состоять из 13 цифр")
	ErrInvalidDigits   = errors.New("said: номер должен содержать только цифры")
	ErrInvalidDate     = errors.New("said: некорректная дата рождения в номере")
	ErrInvalidChecksum = errors.New("said: неверная контрольная цифра")
)

// Gender — пол владельца, закодированный в номере.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Citizenship — статус гражданства владельца.
type Citizenship string

const (
	CitizenshipCitizen  Citizenship = "citizen"
	CitizenshipResident Citizenship = "permanent_resident"
)

// Info содержит сведения, извлечённые из валидного номера.
type Info struct {
	DateOfBirth time.Time   `json:"date_of_birth"`
	Gender      Gender      `json:"gender"`
	Citizenship Citizenship `json:"citizenship"`
	Age         int         `json:"age"`
}

// Validate проверяет формат, дату рождения и контрольную цифру номера.
func Validate(idNumber string) error {
	if len(idNumber) != idLength {
		return ErrInvalidLength
	}
	for _, r := range idNumber {
		if r < '0' || r > '9' {
			return ErrInvalidDigits
		}
	}
	if _, err := parseBirthDate(idNumber, time.Now()); err != nil {
		return err
	}
	if !luhnValid(idNumber) {
		return ErrInvalidChecksum
	}
	return nil
}

// Extract возвращает сведения о владельце валидного номера.
func Extract(idNumber string) (*Info, error) {
	if err := Validate(idNumber); err != nil {
		return nil, err
	}

	now := time.Now()
	dob, err := parseBirthDate(idNumber, now)
	if err != nil {
		return nil, err
	}

	gender := GenderFemale
	// Четыре цифры после даты: от 5000 — мужской пол.
	if idNumber[6] >= '5' {
		gender = GenderMale
	}

	citizenship := CitizenshipCitizen
	if idNumber[10] == '1' {
		citizenship = CitizenshipResident
	}

	return &Info{
		DateOfBirth: dob,
		Gender:      gender,
		Citizenship: citizenship,
		Age:         age(dob, now),
	}, nil
}

// parseBirthDate разбирает YYMMDD с выбором века: даты, ещё не наступившие
// в текущем веке, относятся к прошлому.
func parseBirthDate(idNumber string, now time.Time) (time.Time, error) {
	yy := int(idNumber[0]-'0')*10 + int(idNumber[1]-'0')
	mm := int(idNumber[2]-'0')*10 + int(idNumber[3]-'0')
	dd := int(idNumber[4]-'0')*10 + int(idNumber[5]-'0')

	century := (now.Year() / 100) * 100
	year := century + yy
	if year > now.Year() {
		year -= 100
	}

	dob := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует некорректные даты (32 января -> 1 февраля),
	// поэтому сверяем компоненты после разбора.
	if dob.Year() != year || int(dob.Month()) != mm || dob.Day() != dd {
		return time.Time{}, ErrInvalidDate
	}
	return dob, nil
}

// luhnValid проверяет контрольную цифру по алгоритму Луна.
func luhnValid(idNumber string) bool {
	sum := 0
	double := false
	for i := idLength - 1; i >= 0; i-- {
		d := int(idNumber[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	birthdayThisYear := time.Date(now.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(birthdayThisYear) {
		years--
	}
	return years
}

// ChecksumDigit вычисляет контрольную цифру для первых 12 цифр номера.
// Используется в тестах и при генерации тестовых данных.
func ChecksumDigit(first12 string) (byte, error) {
	if len(first12) != idLength-1 {
		return 0, fmt.Errorf("said: ожидалось 12 цифр, получено %d", len(first12))
	}
	sum := 0
	double := true
	for i := len(first12) - 1; i >= 0; i-- {
		if first12[i] < '0' || first12[i] > '9' {
			return 0, ErrInvalidDigits
		}
		d := int(first12[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10), nil
}
