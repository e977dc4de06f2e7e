package api

import (
	"fmt"
	"strings"

	"github.com/roach88/phonebook/internal/record"
)

func addedMessage(rec record.Record) string {
	return fmt.Sprintf("%s was added to the phonebook with the following id: %s", rec.Name, rec.ID)
}

func updatedMessage(rec record.Record) string {
	return fmt.Sprintf("The %s with an id of %s was updated to be called %s, with a phone number of: %s",
		rec.Kind.Noun, rec.ID, rec.Name, rec.PhoneNumber)
}

func removedMessage(rec record.Record) string {
	return fmt.Sprintf("A %s, called %s, with a phone number of '%s' has been removed from the phonebook.",
		rec.Kind.Noun, rec.Name, rec.PhoneNumber)
}

// lines renders one message per record, each newline-terminated.
func lines(recs []record.Record, msg func(record.Record) string) string {
	var b strings.Builder
	for _, rec := range recs {
		b.WriteString(msg(rec))
		b.WriteByte('\n')
	}
	return b.String()
}

func notFoundMessage(kind record.Kind, id string) string {
	return fmt.Sprintf("%s with id: '%s' was not found.\n", capitalize(kind.Noun), id)
}

func noMatchMessage(prefix string) string {
	return fmt.Sprintf("There is no one in the phonebook whose name starts with '%s'\n", prefix)
}

func createRejectedMessage(kind record.Kind) string {
	return fmt.Sprintf("Bad request. Please ensure that the '%s' and 'phone_number' key-value pairs are present "+
		"and that the %s you would like to add does not currently exist in the phonebook.\n",
		kind.NameColumn, kind.Noun)
}

func updateRejectedMessage(kind record.Kind) string {
	return fmt.Sprintf("Bad request. Please ensure that the '%s' and/or 'phone_number' key-value pairs are present "+
		"in the body and that the %s you would like to update exists in the phonebook.\n",
		kind.NameColumn, kind.Noun)
}

func deleteManyRejectedMessage(kind record.Kind) string {
	return fmt.Sprintf("Bad request. Please ensure that you have supplied a list of ids of the %s you would like "+
		"to remove as key-value pairs, and that these ids exist in the phonebook.\n", kind.Name)
}

const internalErrorMessage = "internal server error\n"

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
