package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// detectUnknownFields compares the raw document with the known struct fields
// and returns a warning for each top-level or scene-level field that will be
// ignored. data has already been parsed successfully.
func detectUnknownFields(data []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	var warnings []string
	knownTopLevel := getJSONFields(reflect.TypeOf(Config{}))
	for _, key := range sortedKeys(raw) {
		if key == "$schema" {
			continue
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if scenesRaw, ok := raw["scenes"]; ok {
		warnings = append(warnings, checkScenesUnknownFields(scenesRaw)...)
	}

	return warnings
}

func checkScenesUnknownFields(data json.RawMessage) []string {
	var scenes map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &scenes); err != nil {
		return nil
	}

	var warnings []string
	known := getJSONFields(reflect.TypeOf(SceneConfig{}))
	for _, name := range sortedKeys(scenes) {
		for _, key := range sortedKeys(scenes[name]) {
			if !known[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in scene %q (ignored)", key, name))
			}
		}
	}
	return warnings
}

// getJSONFields returns the JSON field names of a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		fields[name] = true
	}
	return fields
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
