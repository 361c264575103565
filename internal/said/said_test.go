package said

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeID дополняет 12 цифр корректной контрольной цифрой.
func makeID(t *testing.T, first12 string) string {
	t.Helper()
	check, err := ChecksumDigit(first12)
	require.NoError(t, err)
	return first12 + string(check)
}

func TestValidate_OK(t *testing.T) {
	// мужчина, гражданин, 16 апреля 1988
	id := makeID(t, "880416512308")
	assert.NoError(t, Validate(id))
}

func TestValidate_BadLength(t *testing.T) {
	assert.ErrorIs(t, Validate("123"), ErrInvalidLength)
	assert.ErrorIs(t, Validate(""), ErrInvalidLength)
	assert.ErrorIs(t, Validate("12345678901234"), ErrInvalidLength)
}

func TestValidate_NonDigits(t *testing.T) {
	assert.ErrorIs(t, Validate("88041651230a8"), ErrInvalidDigits)
}

func TestValidate_BadDate(t *testing.T) {
	// месяц 13 не существует
	id := makeID(t, "881316512308")
	assert.ErrorIs(t, Validate(id), ErrInvalidDate)
	// 31 февраля не существует
	id = makeID(t, "880231512308")
	assert.ErrorIs(t, Validate(id), ErrInvalidDate)
}

func TestValidate_BadChecksum(t *testing.T) {
	id := makeID(t, "880416512308")
	// ломаем контрольную цифру
	last := id[12]
	bad := byte('0')
	if last == '0' {
		bad = '1'
	}
	assert.ErrorIs(t, Validate(id[:12]+string(bad)), ErrInvalidChecksum)
}

func TestExtract_MaleCitizen(t *testing.T) {
	id := makeID(t, "880416512308")
	info, err := Extract(id)
	require.NoError(t, err)

	assert.Equal(t, GenderMale, info.Gender)
	assert.Equal(t, CitizenshipCitizen, info.Citizenship)
	assert.Equal(t, time.Date(1988, time.April, 16, 0, 0, 0, 0, time.UTC), info.DateOfBirth)
	assert.Greater(t, info.Age, 30)
}

func TestExtract_FemaleResident(t *testing.T) {
	id := makeID(t, "950102234518")
	info, err := Extract(id)
	require.NoError(t, err)

	assert.Equal(t, GenderFemale, info.Gender)
	assert.Equal(t, CitizenshipResident, info.Citizenship)
	assert.Equal(t, time.Date(1995, time.January, 2, 0, 0, 0, 0, time.UTC), info.DateOfBirth)
}

func TestExtract_CenturyPivot(t *testing.T) {
	// YY в будущем относительно текущего года трактуется как прошлый век
	future := (time.Now().Year() + 5) % 100
	first12 := []byte("000101512308")
	first12[0] = byte('0' + future/10)
	first12[1] = byte('0' + future%10)
	id := makeID(t, string(first12))

	info, err := Extract(id)
	require.NoError(t, err)
	assert.Less(t, info.DateOfBirth.Year(), time.Now().Year())
}

func TestChecksumDigit_Errors(t *testing.T) {
	_, err := ChecksumDigit("123")
	assert.Error(t, err)
	_, err = ChecksumDigit("12345678901x")
	assert.ErrorIs(t, err, ErrInvalidDigits)
}
