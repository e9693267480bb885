package Models

type TransactionStatus string

const (
	// TransactionAwaitingConf marks a paid purchase waiting for handover.
	TransactionAwaitingConf TransactionStatus = "AWAITING_CONF"
	// TransactionPreorder marks payment taken for stock not yet available.
	TransactionPreorder TransactionStatus = "PREORDER"
)

func (s TransactionStatus) Valid() bool {
	return s == TransactionAwaitingConf || s == TransactionPreorder
}

// Transaction records one successful purchase or preorder. Rows are written
// once by the purchase engine; only an admin status correction mutates them.
type Transaction struct {
	ID       string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ItemID   string            `json:"item" gorm:"column:item;type:varchar(36);not null;index"`
	UID      string            `json:"uid" gorm:"type:varchar(36);not null;index"`
	Quantity int               `json:"quantity" gorm:"not null"`
	Status   TransactionStatus `json:"status" gorm:"type:varchar(50);not null"`
}

func (Transaction) TableName() string {
	return "transactions"
}
