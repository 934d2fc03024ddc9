package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Medication struct matches the document in MongoDB.
// Thuốc không bao giờ bị xóa, chỉ có thể về 0.
type Medication struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MedicationID string             `bson:"medicationID" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Unit         string             `bson:"unit" json:"unit"` // Ví dụ: "viên", "hộp"
	StockA       int                `bson:"stockA" json:"stockA"`
	StockB       int                `bson:"stockB" json:"stockB"`
	MinThreshold int                `bson:"minThreshold" json:"minThreshold"`
}

// StockAt trả về tồn kho tại một khu vực.
func (m *Medication) StockAt(area Area) int {
	if area == AreaB {
		return m.StockB
	}
	return m.StockA
}

// TotalStock là tổng tồn kho của cả hai khu vực.
func (m *Medication) TotalStock() int {
	return m.StockA + m.StockB
}
