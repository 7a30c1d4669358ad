package goload

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/internal/util"
)

// TagName is the struct tag key carrying serializer options. Alternative
// variations of the same field use TagName + ".1", TagName + ".2", ...
const TagName = "serializer"

// FieldTagInfo contains the parsed tags of one struct field.
type FieldTagInfo struct {
	JSONName   string // name from the json tag
	Tagged     bool   // has a json or serializer tag
	Skip       bool   // json:"-" or serializer:"-"
	Variations []TagVariation
}

// TagVariation is one serializer tag.
type TagVariation struct {
	Key       string
	Groups    []string
	Since     string
	Until     string
	Getter    string
	Format    string
	Preferred bool
	MaxDepth  *int
}

// ParseFieldTags extracts json and serializer tags from a struct field tag.
//
// Supported serializer options, comma separated:
//   - groups=a|b       - groups the variation belongs to
//   - since=1.0        - first version (inclusive)
//   - until=2.0        - last version (inclusive)
//   - getter=GetX      - read through a zero-argument method
//   - preferred        - preferred representative
//   - format=layout    - time layout for date fields
//   - maxdepth=2       - recursion threshold for this field
//   - key=name         - serialized key, defaults to the json name
//
// Example:
//
//	Total float64 `json:"summ" serializer:"until=0.9" serializer.1:"key=totalSumm,since=1.0"`
func ParseFieldTags(tag string) (FieldTagInfo, error) {
	info := FieldTagInfo{}
	st := reflect.StructTag(tag)

	if jsonTag, ok := st.Lookup("json"); ok {
		info.Tagged = true
		info.JSONName, _, _ = strings.Cut(jsonTag, ",")
		if info.JSONName == "-" {
			info.Skip = true
			return info, nil
		}
	}

	primary, ok := st.Lookup(TagName)
	if ok {
		info.Tagged = true
		if primary == "-" {
			info.Skip = true
			return info, nil
		}
	}
	v, err := parseVariation(primary)
	if err != nil {
		return info, errors.Wrapf(err, "tag %s", TagName)
	}
	info.Variations = append(info.Variations, v)

	for n := 1; ; n++ {
		name := TagName + "." + strconv.Itoa(n)
		alt, ok := st.Lookup(name)
		if !ok {
			break
		}
		v, err := parseVariation(alt)
		if err != nil {
			return info, errors.Wrapf(err, "tag %s", name)
		}
		info.Variations = append(info.Variations, v)
	}

	return info, nil
}

func parseVariation(tag string) (TagVariation, error) {
	var v TagVariation
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, hasValue := strings.Cut(part, "=")
		switch name {
		case "preferred":
			v.Preferred = true
			continue
		case "groups", "since", "until", "getter", "format", "maxdepth", "key":
			if !hasValue || value == "" {
				return v, errors.Wrapf(errors.ErrInvalidConfig, "option %q needs a value", name)
			}
		default:
			return v, errors.WithHint(
				errors.Wrapf(errors.ErrInvalidConfig, "unknown option %q", name),
				"supported options: groups, since, until, getter, preferred, format, maxdepth, key")
		}

		switch name {
		case "groups":
			v.Groups = strings.Split(value, "|")
		case "since":
			v.Since = value
		case "until":
			v.Until = value
		case "getter":
			v.Getter = value
		case "format":
			v.Format = value
		case "key":
			v.Key = value
		case "maxdepth":
			d, err := strconv.Atoi(value)
			if err != nil || d < 0 {
				return v, errors.Wrapf(errors.ErrInvalidConfig, "maxdepth %q is not a non-negative integer", value)
			}
			v.MaxDepth = util.Ptr(d)
		}
	}
	return v, nil
}
