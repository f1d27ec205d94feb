// internal/domain/common/id.go
package common

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID is a record identifier. The listing API sends some ids as integers and
// others as strings; both decode into the same canonical string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		*id = ID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Equal compares two ids after trimming whitespace.
func (id ID) Equal(other string) bool {
	return strings.TrimSpace(string(id)) == strings.TrimSpace(other)
}
