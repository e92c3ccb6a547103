package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// IntArray is a custom type for handling INTEGER[] arrays in PostgreSQL
type IntArray []int64

// Value implements the driver.Valuer interface
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pq.Array(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *IntArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]int64)(a)
	return pq.Array(slice).Scan(src)
}

// Contains reports whether n is present in the array
func (a IntArray) Contains(n int64) bool {
	for _, v := range a {
		if v == n {
			return true
		}
	}
	return false
}
