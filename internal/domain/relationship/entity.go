package relationship

import "time"

// Block is a one-way block; either direction stops chat between the pair.
type Block struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"-"`
	BlockerID int64     `gorm:"column:blocker_id;not null;uniqueIndex:idx_blocks_pair" json:"-"`
	BlockedID int64     `gorm:"column:blocked_id;not null;uniqueIndex:idx_blocks_pair;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"blocked_at"`
}

func (Block) TableName() string { return "user_blocks" }

func Models() []any {
	return []any{&Block{}}
}
