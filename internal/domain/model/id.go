package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// 外部APIのID。数値でも数字の文字列でも受ける（json-serverは文字列IDを振ることがある）
type FlexID int64

func (id *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = 0
		return nil
	}
	s := bytes.Trim(b, `"`)
	if len(s) == 0 {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = FlexID(n)
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}
