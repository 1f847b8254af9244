package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:embed data/nearby_stars.json
var nearbyStarsJSON []byte

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report dataset field names rather than Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// record mirrors one entry of the JSON dataset. Pointer fields let
// validation tell a missing value apart from a zero value.
type record struct {
	Name          *string  `json:"Name" validate:"required,min=1"`
	Distance      *float64 `json:"Distance (ly)" validate:"required,gte=0"`
	SpectralClass *string  `json:"Spectral Class" validate:"required,min=1"`
	Radius        *float64 `json:"Radius (R/Ro)" validate:"required,gt=0"`
	Luminosity    *float64 `json:"Luminosity (L/Lo)" validate:"required,gt=0"`
}

// Load decodes a dataset document and validates every record. Any invalid
// record fails the whole load.
func Load(r io.Reader) (*Catalog, error) {
	var raw map[string]record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}

	// Walk keys in order so the first reported error is stable.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stars := make([]Star, 0, len(raw))
	for _, key := range keys {
		rec := raw[key]
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidStar, key, formatValidationError(err))
		}
		stars = append(stars, Star{
			ID:              key,
			Name:            *rec.Name,
			DistanceLY:      *rec.Distance,
			SpectralClass:   *rec.SpectralClass,
			RadiusSolar:     *rec.Radius,
			LuminositySolar: *rec.Luminosity,
		})
	}

	return New(stars), nil
}

// LoadFile loads a dataset from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	cat, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Default returns the embedded sample of nearby and bright stars.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(nearbyStarsJSON))
}

// formatValidationError turns validator output into "Field: reason".
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must not be empty", field)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
