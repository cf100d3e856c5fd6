package cli

import (
	"fmt"
	"sort"
	"strings"
)

type stringFlag struct {
	Value  string
	WasSet bool
}

func (s *stringFlag) String() string { return s.Value }
func (s *stringFlag) Set(v string) error {
	s.Value = v
	s.WasSet = true
	return nil
}

type intFlag struct {
	Value  int
	WasSet bool
}

func (i *intFlag) String() string { return fmt.Sprintf("%d", i.Value) }
func (i *intFlag) Set(v string) error {
	var parsed int
	_, err := fmt.Sscanf(v, "%d", &parsed)
	if err != nil {
		return err
	}
	i.Value = parsed
	i.WasSet = true
	return nil
}

type floatFlag struct {
	Value  float64
	WasSet bool
}

func (f *floatFlag) String() string { return fmt.Sprintf("%g", f.Value) }
func (f *floatFlag) Set(v string) error {
	var parsed float64
	_, err := fmt.Sscanf(v, "%f", &parsed)
	if err != nil {
		return err
	}
	f.Value = parsed
	f.WasSet = true
	return nil
}

// BoolFlag records whether it was given so config values only fill it
// when it was not.
type BoolFlag struct {
	Value  bool
	WasSet bool
}

func (b *BoolFlag) String() string { return fmt.Sprintf("%t", b.Value) }
func (b *BoolFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	b.Value = v == "true" || v == "1" || v == "yes" || v == "y"
	b.WasSet = true
	return nil
}

func (b *BoolFlag) IsBoolFlag() bool { return true }

type stringMapFlag struct {
	Values map[string]string
	WasSet bool
}

func (s *stringMapFlag) String() string {
	if len(s.Values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Values))
	for key, value := range s.Values {
		parts = append(parts, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (s *stringMapFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	s.WasSet = true
	return nil
}

// stringListFlag collects repeated flags. Each value may also hold a comma
// separated list.
type stringListFlag struct {
	Values []string
	WasSet bool
}

func (s *stringListFlag) String() string { return strings.Join(s.Values, ",") }

func (s *stringListFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			s.Values = append(s.Values, part)
		}
	}
	s.WasSet = true
	return nil
}

// commandListFlag collects repeated flags verbatim, commas included.
type commandListFlag struct {
	Values []string
	WasSet bool
}

func (c *commandListFlag) String() string { return strings.Join(c.Values, "; ") }

func (c *commandListFlag) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty command")
	}
	c.Values = append(c.Values, v)
	c.WasSet = true
	return nil
}
