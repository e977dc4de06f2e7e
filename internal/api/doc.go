// Package api serves the phonebook over HTTP.
//
// Each record kind gets its own collection (/contacts, /people) with the
// same routes:
//
//	GET    /{kind}                          list, ordered by name
//	GET    /{kind}?name_starts_with=s       prefix search
//	GET    /{kind}?name=x&phone_number=y    equality filters (full_name for people)
//	GET    /{kind}/name_starts_with={s}     prefix search, path form
//	GET    /{kind}/{id}                     one record
//	POST   /{kind}                          create one (object body) or many (array body)
//	PUT    /{kind}/{id}                     update name and/or phone_number
//	DELETE /{kind}/{id}                     delete one
//	DELETE /{kind}                          delete many, body [{"id": ...}, ...]
//
// Records are returned as JSON. Confirmations and client errors are plain
// text. Storage failures are logged and answered with a generic 500.
package api
