// Package record encodes and decodes attendance records.
//
// A record is one line of text with three whitespace-separated fields:
//
//	S101 2024-03-01 1
//
// Fields are student ID, date and status. The date is an opaque token.
// Status 1 means present and 0 means absent. Decoding tolerates any integer
// status, only encoding-side validation restricts it to 0 or 1.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Status is the attendance flag stored in the third field.
type Status int

// Status values accepted on write.
const (
	Absent  Status = 0
	Present Status = 1
)

// fieldCount is the number of tokens in an encoded line.
const fieldCount = 3

var (
	// ErrMalformedRecord reports a line that does not decode into a record.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidStatusValue reports a status outside {0, 1} on write.
	ErrInvalidStatusValue = errors.New("invalid status value (must be 0 or 1)")

	// ErrInvalidField reports an empty field or a field containing whitespace.
	ErrInvalidField = errors.New("invalid field")
)

// Record is one attendance event.
type Record struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Status    Status `json:"status"`
}

// IsPresent reports whether the record marks the student present.
// Only status 1 counts, other tolerated values count as not present.
func (r Record) IsPresent() bool {
	return r.Status == Present
}

// String returns the encoded form without the line terminator.
func (r Record) String() string {
	return Encode(r)
}

// New builds a record for the write path, validating every field.
func New(studentID, date string, status Status) (Record, error) {
	if err := ValidateField("student ID", studentID); err != nil {
		return Record{}, err
	}

	if err := ValidateField("date", date); err != nil {
		return Record{}, err
	}

	if err := ValidateStatus(status); err != nil {
		return Record{}, err
	}

	return Record{StudentID: studentID, Date: date, Status: status}, nil
}

// ValidateStatus rejects statuses other than [Absent] and [Present].
func ValidateStatus(status Status) error {
	if status != Absent && status != Present {
		return fmt.Errorf("%w: %d", ErrInvalidStatusValue, status)
	}

	return nil
}

// ValidateField rejects values that would not survive a round trip:
// empty strings and strings with embedded whitespace.
func ValidateField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidField, name)
	}

	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %s %q contains whitespace", ErrInvalidField, name, value)
	}

	return nil
}

// ParseStatus parses a status token as typed by a user ("0" or "1").
func ParseStatus(s string) (Status, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatusValue, s)
	}

	status := Status(n)

	if err := ValidateStatus(status); err != nil {
		return 0, err
	}

	return status, nil
}

// Encode returns "studentID date status" with no line terminator.
// Fields containing whitespace produce a line that will not decode back
// to the same record; use [New] or [ValidateField] on the write path.
func Encode(r Record) string {
	var b strings.Builder

	b.Grow(len(r.StudentID) + len(r.Date) + 4)
	b.WriteString(r.StudentID)
	b.WriteByte(' ')
	b.WriteString(r.Date)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(int(r.Status)))

	return b.String()
}

// Decode parses one line. Leading and trailing whitespace (including a
// line terminator) is ignored, and fields may be separated by any run of
// whitespace.
//
// Decode fails with [ErrMalformedRecord] when the line does not hold exactly
// three tokens or the status is not an integer.
func Decode(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, fieldCount, len(fields))
	}

	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return Record{}, fmt.Errorf("%w: status %q is not an integer", ErrMalformedRecord, fields[2])
	}

	return Record{StudentID: fields[0], Date: fields[1], Status: Status(n)}, nil
}
