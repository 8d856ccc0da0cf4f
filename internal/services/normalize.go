package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	domain "deskprefs/internal/domain/preferences"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/text/language"
)

// editorToggles default to true whenever a loaded document lacks them.
var editorToggles = []string{"showLineNum", "showFolding", "dropText", "links"}

// sectionFields maps each persisted section to its known field names.
var sectionFields = map[string]map[string]bool{
	"behavior": jsonFields(reflect.TypeOf(domain.Behavior{})),
	"general":  jsonFields(reflect.TypeOf(domain.General{})),
	"editor":   jsonFields(reflect.TypeOf(domain.Editor{})),
	"cli":      jsonFields(reflect.TypeOf(domain.CLI{})),
	"decoder":  nil,
}

var (
	validThemes       = []string{string(domain.ThemeLight), string(domain.ThemeDark), string(domain.ThemeAuto)}
	validCursorStyles = []string{string(domain.CursorBlock), string(domain.CursorUnderline), string(domain.CursorBar)}
)

// normalizeDocument prepares a preference document for merging. It drops
// unknown or invalid fields, keeps the first decoder of each name and resets
// an unparseable language to auto. Every change is logged.
func normalizeDocument(raw json.RawMessage, log *slog.Logger) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, errors.New("preferences document is not a JSON object")
	}

	out := []byte(raw)
	var err error

	var drop []string
	gjson.ParseBytes(out).ForEach(func(key, value gjson.Result) bool {
		section := key.String()
		fields, known := sectionFields[section]
		switch {
		case !known:
			log.Warn("Ignoring unknown preferences section", "section", section)
			drop = append(drop, gjson.Escape(section))
		case section == "decoder":
			if !value.IsArray() && value.Type != gjson.Null {
				log.Warn("Ignoring malformed decoder list", "type", value.Type.String())
				drop = append(drop, section)
			}
		case !value.IsObject():
			log.Warn("Ignoring malformed preferences section", "section", section)
			drop = append(drop, section)
		default:
			value.ForEach(func(k, _ gjson.Result) bool {
				if !fields[k.String()] {
					log.Warn("Ignoring unknown preference", "section", section, "key", k.String())
					drop = append(drop, section+"."+gjson.Escape(k.String()))
				}
				return true
			})
		}
		return true
	})

	if v := gjson.GetBytes(out, "general.theme"); v.Exists() && !oneOf(v.String(), validThemes) {
		log.Warn("Ignoring invalid theme", "theme", v.Raw)
		drop = append(drop, "general.theme")
	}
	if v := gjson.GetBytes(out, "cli.cursorStyle"); v.Exists() && !oneOf(v.String(), validCursorStyles) {
		log.Warn("Ignoring invalid cursor style", "cursorStyle", v.Raw)
		drop = append(drop, "cli.cursorStyle")
	}

	for _, path := range drop {
		if out, err = sjson.DeleteBytes(out, path); err != nil {
			return nil, fmt.Errorf("dropping %s: %w", path, err)
		}
	}

	if v := gjson.GetBytes(out, "general.language"); v.Exists() && !validLanguage(v.String()) {
		log.Warn("Resetting invalid language", "language", v.String())
		if out, err = sjson.SetBytes(out, "general.language", domain.DefaultLanguage); err != nil {
			return nil, fmt.Errorf("resetting language: %w", err)
		}
	}

	if out, err = uniqueDecoders(out, log); err != nil {
		return nil, err
	}

	return out, nil
}

// uniqueDecoders keeps the first decoder of every name.
func uniqueDecoders(doc []byte, log *slog.Logger) ([]byte, error) {
	list := gjson.GetBytes(doc, "decoder")
	if !list.IsArray() {
		return doc, nil
	}
	items := list.Array()
	unique := lo.UniqBy(items, func(d gjson.Result) string {
		return d.Get("name").String()
	})
	if len(unique) == len(items) {
		return doc, nil
	}
	log.Warn("Dropping decoders with duplicate names", "dropped", len(items)-len(unique))

	raw := "[" + strings.Join(lo.Map(unique, func(d gjson.Result, _ int) string { return d.Raw }), ",") + "]"
	out, err := sjson.SetRawBytes(doc, "decoder", []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("deduplicating decoders: %w", err)
	}
	return out, nil
}

// defaultEditorToggles sets the editor toggles a fetched document lacks to
// true. Partial edit documents must not go through it.
func defaultEditorToggles(doc json.RawMessage) (json.RawMessage, error) {
	out := []byte(doc)
	var err error
	for _, toggle := range editorToggles {
		path := "editor." + toggle
		if gjson.GetBytes(out, path).Exists() {
			continue
		}
		if out, err = sjson.SetBytes(out, path, true); err != nil {
			return nil, fmt.Errorf("defaulting %s: %w", path, err)
		}
	}
	return out, nil
}

// mergeInto overlays doc onto dst. Only fields present in doc change; a
// type mismatch skips that field and is logged.
func mergeInto(dst *domain.Preferences, doc json.RawMessage, log *slog.Logger) error {
	err := json.Unmarshal(doc, dst)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		log.Warn("Skipping preference with unexpected type", "field", typeErr.Field, "value", typeErr.Value)
		return nil
	}
	return err
}

func validLanguage(tag string) bool {
	if tag == "" || tag == domain.DefaultLanguage {
		return true
	}
	_, err := language.Parse(tag)
	return err == nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func jsonFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = true
		}
	}
	return fields
}
