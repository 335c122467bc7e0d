package registry

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/lo"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	rerrors "convroute/pkg/errors"
)

// cacheSchema validates the persisted-cache document shape before it is
// unmarshaled: a JSON array of [handlerName, formats[]] pairs, in
// declaration order. Rejecting malformed input here turns a corrupt cache
// file into a clear configuration error instead of a confusing partial
// restore.
const cacheSchema = `{
  "type": "array",
  "items": {
    "type": "array",
    "minItems": 2,
    "maxItems": 2,
    "prefixItems": [
      {"type": "string", "minLength": 1},
      {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["mime"],
          "properties": {
            "mime": {"type": "string", "minLength": 1}
          }
        }
      }
    ]
  }
}`

func compileCacheSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("cache.schema.json", strings.NewReader(cacheSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("cache.schema.json")
}

// cacheEntry is one (handlerName, formats[]) pair. It marshals as the
// two-element JSON array the cache persistence format documents, not as an
// object, so a serialized cache round-trips through whatever external
// collaborator (the format-cache-to-storage layer) persists it unchanged.
type cacheEntry struct {
	Handler string
	Formats []format.Descriptor
}

func (e cacheEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{e.Handler, e.Formats})
}

func (e *cacheEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.Handler); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Formats)
}

// SerializeCache builds a persistable snapshot of the current option list,
// grouped by handler name in registration order, as a JSON array of
// [handlerName, formats[]] pairs.
func (r *Registry) SerializeCache() ([]byte, error) {
	byHandler := lo.GroupBy(r.options, func(opt handler.Option) string {
		return opt.Handler.Name()
	})
	order := lo.Uniq(lo.Map(r.options, func(opt handler.Option, _ int) string {
		return opt.Handler.Name()
	}))

	entries := lo.Map(order, func(name string, _ int) cacheEntry {
		formats := lo.Map(byHandler[name], func(opt handler.Option, _ int) format.Descriptor {
			return opt.Format
		})
		return cacheEntry{Handler: name, Formats: formats}
	})
	return json.Marshal(entries)
}

// RestoreCache accepts either the primary array-of-pairs shape or the
// `{ cache: [...] }` variant, validates it against the cache schema, then
// repopulates the option list and lookup indexes from it without invoking
// any handler's Init. Handlers named in the cache that are not present in
// this registry's roster are skipped; handlers in the roster but absent
// from the cache keep no options until the next Init.
func (r *Registry) RestoreCache(data []byte) error {
	schema, err := compileCacheSchema()
	if err != nil {
		return rerrors.Configuration("cache_schema_compile_failed", err.Error()).Build()
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return rerrors.Configuration("cache_invalid_json", err.Error()).Build()
	}

	arrayData := data
	if obj, ok := generic.(map[string]interface{}); ok {
		cacheField, ok := obj["cache"]
		if !ok {
			return rerrors.Configuration("cache_missing_field", "cache object variant must have a \"cache\" array").Build()
		}
		arrayData, err = json.Marshal(cacheField)
		if err != nil {
			return rerrors.Configuration("cache_decode_failed", err.Error()).Build()
		}
		if err := json.Unmarshal(arrayData, &generic); err != nil {
			return rerrors.Configuration("cache_invalid_json", err.Error()).Build()
		}
	}

	if err := schema.Validate(generic); err != nil {
		return rerrors.Configuration("cache_schema_validation_failed", err.Error()).Build()
	}

	var entries []cacheEntry
	dec := json.NewDecoder(bytes.NewReader(arrayData))
	if err := dec.Decode(&entries); err != nil {
		return rerrors.Configuration("cache_decode_failed", err.Error()).Build()
	}

	r.options = nil
	r.byExtension = make(map[string][]handler.Option)
	r.byMIME = make(map[string][]handler.Option)

	idx := 0
	for _, entry := range entries {
		h, ok := r.HandlerByName(entry.Handler)
		if !ok {
			r.logger.Warn("cache entry references unknown handler, skipping", zap.String("handler", entry.Handler))
			continue
		}
		for _, fd := range entry.Formats {
			opt := handler.Option{Handler: h, Format: fd, Index: idx}
			idx++
			r.options = append(r.options, opt)
			if fd.Extension != "" {
				ext := strings.ToLower(fd.Extension)
				r.byExtension[ext] = append(r.byExtension[ext], opt)
			}
			r.byMIME[fd.MIME] = append(r.byMIME[fd.MIME], opt)
		}
	}
	return nil
}
