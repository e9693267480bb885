package Models

// Item is a purchasable stock entry. Stock never goes negative; price is a
// whole number of credit units.
type Item struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	Image       string `json:"image" gorm:"type:text"`
	Stock       int    `json:"stock" gorm:"not null"`
	Price       int    `json:"price" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
}

func (Item) TableName() string {
	return "items"
}

// ItemRequest is a user's suggestion for a new catalogue item. It carries no
// state machine; admins read them and act out of band.
type ItemRequest struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RequestedBy string `json:"requested_by" gorm:"type:varchar(36);not null"`
	Description string `json:"description" gorm:"type:text;not null"`
}

func (ItemRequest) TableName() string {
	return "itemrequests"
}
