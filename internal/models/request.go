package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một yêu cầu thuốc.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusExpired  = "EXPIRED"
)

// Đối tượng gửi yêu cầu.
const (
	SubjectStudent  = "STUDENT"
	SubjectEmployee = "EMPLOYEE"
)

// Request là một phiếu yêu cầu thuốc. StaffNote, ProcessedAt và
// DistributionArea chỉ được gán khi phiếu được xử lý lần đầu.
type Request struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequestID        string             `bson:"requestID" json:"requestId"`
	RequesterEmail   string             `bson:"requesterEmail" json:"requesterEmail"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	SubjectGroup     string             `bson:"subjectGroup" json:"subjectGroup"`
	Note             string             `bson:"note" json:"note"`
	Status           string             `bson:"status" json:"status"`
	StaffNote        string             `bson:"staffNote,omitempty" json:"staffNote,omitempty"`
	ProcessedAt      *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	DistributionArea string             `bson:"distributionArea,omitempty" json:"distributionArea,omitempty"`

	// Items được join từ collection request_items khi đọc.
	Items []RequestItem `bson:"-" json:"items"`
}

// RequestItem là một dòng thuốc đã cấp cho phiếu. Collection này là
// append-only: duyệt lại một phiếu sẽ THÊM dòng mới chứ không thay thế.
type RequestItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequestID    string             `bson:"requestID" json:"requestId"`
	MedicationID string             `bson:"medicationID" json:"medicationId"`
	Quantity     int                `bson:"quantity" json:"quantity"`
}
