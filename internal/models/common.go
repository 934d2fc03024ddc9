// server/internal/models/common.go
package models

// Area là khu vực kho phát thuốc. Trạm y tế có hai cơ sở vật lý,
// tồn kho của mỗi cơ sở được theo dõi độc lập.
type Area string

const (
	AreaA Area = "A"
	AreaB Area = "B"
)

// Valid kiểm tra area có phải là một trong hai kho hợp lệ không.
func (a Area) Valid() bool {
	return a == AreaA || a == AreaB
}
