package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/tep-hq/playbook"
)

// A Normalizer tidies its own fields after decoding and before validation.
type Normalizer interface {
	Normalize()
}

type Parser struct {
	queryParamDecoder queryParamDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		queryParamDecoder: newQueryParamDecoder(),
		validator:         newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in *http.Request.Body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire r.Body and can't be read from again.
// Use a [io.TeeReader] if r.Body needs to be reused after calling ParseBody.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("playbook/http/req: %w: ParseBody called with non-pointer: %s", playbook.ErrUnexpected, err)
	}

	if err != nil {
		return fmt.Errorf("playbook/http/req: %w: failed decoding request body: %s", playbook.ErrNotValid, err)
	}

	return p.check(structPtr)
}

// ParseForm decodes into a pointer to a struct the form data submitted with r.
// JSON request bodies are handed to ParseBody;
// everything else is read as URL-encoded or multipart form values.
func (p *Parser) ParseForm(r *http.Request, structPtr any) error {
	if isJSON(r.Header.Get("Content-Type")) {
		return p.ParseBody(r.Body, structPtr)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("playbook/http/req: %w: failed parsing form: %s", playbook.ErrNotValid, err)
	}

	return p.ParseFormValues(r.PostForm, structPtr)
}

// ParseFormValues decodes vals into a pointer to a struct and validates the result.
func (p *Parser) ParseFormValues(vals url.Values, structPtr any) error {
	if err := p.queryParamDecoder.decode(structPtr, vals); err != nil {
		return fmt.Errorf("playbook/http/req: failed decoding form values: %w", err)
	}

	return p.check(structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query param data in *http.Request.URL.Query.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.queryParamDecoder.decode(structPtr, params); err != nil {
		return fmt.Errorf("playbook/http/req: failed decoding request query params: %w", err)
	}

	return p.check(structPtr)
}

func (p *Parser) check(structPtr any) error {
	if n, ok := structPtr.(Normalizer); ok {
		n.Normalize()
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("playbook/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
