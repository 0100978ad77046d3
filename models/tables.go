package models

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	Name         string `gorm:"not null" json:"name"`
}

type Post struct {
	ID       int    `gorm:"primary_key;autoIncrement" json:"id"`
	AuthorID int    `gorm:"not null;index" json:"author_id"` // reassigned to the editor on update
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Title    string `gorm:"unique;not null" json:"title"`
	Subtitle string `gorm:"not null" json:"subtitle"`
	Date     string `gorm:"not null" json:"date"` // display string, stamped once at creation
	Body     string `gorm:"type:text;not null" json:"body"`
	ImgURL   string `gorm:"not null" json:"img_url"`
}

type Comment struct {
	ID       int    `gorm:"primary_key;autoIncrement" json:"id"`
	AuthorID int    `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	PostID   int    `gorm:"not null;index" json:"post_id"`
	Text     string `gorm:"type:text;not null" json:"text"`
}
