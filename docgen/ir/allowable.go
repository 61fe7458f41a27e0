package ir

import "strings"

// AllowableValues constrains the legal values of a property or parameter.
// It is either an *AllowableList or an *AllowableRange.
type AllowableValues interface {
	allowable()
}

// AllowableList is an ENUMERATED constraint: a whitelist of string literals.
type AllowableList struct {
	Values []string
}

func (*AllowableList) allowable() {}

// AllowableRange is a numeric RANGE constraint. An empty bound is open.
type AllowableRange struct {
	Min          string
	Max          string
	ExclusiveMin bool
	ExclusiveMax bool
}

func (*AllowableRange) allowable() {}

// ListOf returns an ENUMERATED constraint, or nil when values is empty.
// An empty list means "no constraint", never "nothing is allowed".
func ListOf(values ...string) AllowableValues {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return &AllowableList{Values: out}
}

// RangeOf returns a RANGE constraint, or nil when both bounds are open.
func RangeOf(min, max string) AllowableValues {
	if min == "" && max == "" {
		return nil
	}
	return &AllowableRange{Min: min, Max: max}
}

// ParseAllowableValues parses the compact string form used in struct tags:
//
//	range[1,10]   inclusive range; either side may be empty
//	range(0,10]   "(" and ")" mark exclusive bounds
//	a,b,c         enumerated list
//	a             single literal
//
// Blank input yields nil.
func ParseAllowableValues(s string) AllowableValues {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "range[") || strings.HasPrefix(trimmed, "range(") {
		body := trimmed[len("range"):]
		exclusiveMin := body[0] == '('
		body = body[1:]
		exclusiveMax := strings.HasSuffix(body, ")")
		body = strings.TrimRight(body, "])")
		bounds := strings.SplitN(body, ",", 2)
		min := strings.TrimSpace(bounds[0])
		max := ""
		if len(bounds) > 1 {
			max = strings.TrimSpace(bounds[1])
		}
		if min == "" && max == "" {
			return nil
		}
		return &AllowableRange{
			Min:          min,
			Max:          max,
			ExclusiveMin: exclusiveMin && min != "",
			ExclusiveMax: exclusiveMax && max != "",
		}
	}
	var values []string
	for _, part := range strings.Split(trimmed, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return ListOf(values...)
}
