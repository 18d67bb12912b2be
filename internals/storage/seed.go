package storage

import (
	"context"
	"database/sql"
)

// Seed loads the initial cities and a couple of cafes. Safe to run
// repeatedly; existing rows are left alone.
func Seed(ctx context.Context, db *sql.DB) error {
	cities := []struct {
		code, name, state string
	}{
		{"sf", "San Francisco", "CA"},
		{"berk", "Berkeley", "CA"},
		{"oak", "Oakland", "CA"},
	}
	for _, c := range cities {
		_, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO cities (code, name, state) VALUES (?, ?, ?)",
			c.code, c.name, c.state)
		if err != nil {
			return err
		}
	}

	cafes := []struct {
		name, description, address, cityCode, url, imageURL string
	}{
		{
			name: "Bernie's Cafe",
			description: "Serving locals in Noe Valley. A great place to sit" +
				" and write and write Rithm exercises.",
			address:  "3966 24th St",
			cityCode: "sf",
			url:      "https://www.yelp.com/biz/bernies-san-francisco",
			imageURL: "https://s3-media4.fl.yelpcdn.com/bphoto/bVCa2JefOCqxQsM6yWrC-A/o.jpg",
		},
		{
			name: "Perch Coffee",
			description: "Hip and sleek place to get cardamom lattés when" +
				" biking around Oakland.",
			address:  "440 Grand Ave",
			cityCode: "oak",
			url:      "https://perchoffee.com",
			imageURL: "https://s3-media4.fl.yelpcdn.com/bphoto/0vhzcgkzIUIEPIyL2rF_YQ/o.jpg",
		},
	}
	for _, c := range cafes {
		var count int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM cafes WHERE name = ?", c.name).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO cafes (name, description, url, address, city_code, image_url)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.name, c.description, c.url, c.address, c.cityCode, c.imageURL)
		if err != nil {
			return err
		}
	}
	return nil
}
