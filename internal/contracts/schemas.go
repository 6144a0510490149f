package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	FilterStateRequest    = "FilterStateRequest"
	FilterUpdateRequest   = "FilterUpdateRequest"
	UserLocationRequest   = "UserLocationRequest"
	NearMeRequest         = "NearMeRequest"
	BookingInquiryRequest = "BookingInquiryRequest"

	V1 = "1.0.0"
)

// ErrSchemaValidation оборачивает любые нарушения схемы запроса
var ErrSchemaValidation = errors.New("request does not match schema")

//go:embed schemas
var embedded embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	schemasFS, err := fs.Sub(embedded, "schemas")
	if err != nil {
		log.Fatalf("failed to open embedded schemas: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Сначала регистрируем все схемы как ресурсы, чтобы работали $ref
	err = fs.WalkDir(schemasFS, "requests", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		return compiler.AddResource(path, file)
	})
	if err != nil {
		log.Fatalf("error adding schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "requests", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}
		if key := generateKeyFromPath(path); key != "" {
			compiledSchemas[key] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error compiling schemas: %v", err)
	}
}

// generateKeyFromPath превращает "requests/filter-state/v1.json" в "FilterStateRequest/1.0.0"
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "requests/"), ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)

	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Request")

	version := strings.Replace(parts[1], "v", "", 1) + ".0.0"

	return name.String() + "/" + version
}

// ValidateRequest проверяет тело запроса по зарегистрированной схеме
func ValidateRequest(requestType, version string, body []byte) error {
	schema, ok := compiledSchemas[requestType+"/"+version]
	if !ok {
		return fmt.Errorf("schema for request '%s' version '%s' not found", requestType, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not a valid JSON: %v", ErrSchemaValidation, err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	return nil
}
