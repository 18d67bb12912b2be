package models

// Default image paths stored when a form leaves image_url blank.
const (
	DefaultCafeImage = "/static/images/default-cafe.jpg"
	DefaultUserImage = "/static/images/default-pic.png"
)

// City is a seeded lookup row; cafes reference it by code.
type City struct {
	Code  string `db:"code" json:"code"`
	Name  string `db:"name" json:"name"`
	State string `db:"state" json:"state"`
}

type Cafe struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	URL         string `db:"url" json:"url"`
	Address     string `db:"address" json:"address"`
	CityCode    string `db:"city_code" json:"city_code"`
	ImageURL    string `db:"image_url" json:"image_url"`

	// Filled from the cities join when the cafe is loaded.
	CityName  string `db:"city_name" json:"city_name"`
	CityState string `db:"city_state" json:"city_state"`
}

// GetCityState returns "City, ST" for the cafe's city.
func (c *Cafe) GetCityState() string {
	return c.CityName + ", " + c.CityState
}

type User struct {
	ID             int    `db:"id" json:"id"`
	Username       string `db:"username" json:"username"`
	Admin          bool   `db:"admin" json:"admin"`
	Email          string `db:"email" json:"email"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	Description    string `db:"description" json:"description"`
	ImageURL       string `db:"image_url" json:"image_url"`
	HashedPassword string `db:"hashed_password" json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Like joins a user to a cafe. One row per (user, cafe) pair.
type Like struct {
	UserID int `db:"user_id" json:"user_id"`
	CafeID int `db:"cafe_id" json:"cafe_id"`
}
