package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rango/internal/config"
	"github.com/rango/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedPage struct {
	Title string
	URL   string
	Views int
}

type seedCategory struct {
	Name  string
	Views int
	Likes int
	Pages []seedPage
}

// 教程自带的示例数据
var seedCategories = []seedCategory{
	{
		Name: "Python", Views: 128, Likes: 64,
		Pages: []seedPage{
			{Title: "Official Python Tutorial", URL: "http://docs.python.org/3/tutorial/", Views: 114},
			{Title: "How to Think like a Computer Scientist", URL: "http://www.greenteapress.com/thinkpython/", Views: 53},
			{Title: "Learn Python in 10 Minutes", URL: "http://www.korokithakis.net/tutorials/python/", Views: 27},
		},
	},
	{
		Name: "Django", Views: 64, Likes: 32,
		Pages: []seedPage{
			{Title: "Official Django Tutorial", URL: "https://docs.djangoproject.com/en/2.1/intro/tutorial01/", Views: 96},
			{Title: "Django Rocks", URL: "http://www.djangorocks.com/", Views: 31},
			{Title: "How to Tango with Django", URL: "http://www.tangowithdjango.com/", Views: 72},
		},
	},
	{
		Name: "Other Frameworks", Views: 32, Likes: 16,
		Pages: []seedPage{
			{Title: "Bottle", URL: "http://bottlepy.org/docs/dev/", Views: 12},
			{Title: "Flask", URL: "http://flask.pocoo.org", Views: 18},
		},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}
	cfg := config.Load()

	var driver, path, username, password string
	flag.StringVar(&driver, "driver", cfg.DatabaseDriver, "database driver (sqlite or postgres)")
	flag.StringVar(&path, "db", cfg.DatabasePath, "sqlite db path or postgres dsn")
	flag.StringVar(&username, "superuser", cfg.SuperRootUserName, "optional superuser name to create")
	flag.StringVar(&password, "password", cfg.SuperRootPassword, "password for the optional superuser")
	flag.Parse()

	if err := db.Init(driver, path); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Starting Rango population script...")
	if err := populate(db.DB, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "populate: %v\n", err)
		os.Exit(1)
	}

	if err := db.EnsureUser(db.DB, username, password); err != nil {
		fmt.Fprintf(os.Stderr, "ensure superuser: %v\n", err)
		os.Exit(1)
	}
}

// populate 以幂等方式写入示例分类与页面，已存在的记录会被更新为示例数值
func populate(gdb *gorm.DB, out io.Writer) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, seed := range seedCategories {
			category, err := addCategory(tx, seed)
			if err != nil {
				return err
			}
			for _, page := range seed.Pages {
				if err := addPage(tx, category, page); err != nil {
					return err
				}
			}
		}

		var categories []db.Category
		if err := tx.Preload("Pages").Order("id asc").Find(&categories).Error; err != nil {
			return err
		}
		for _, category := range categories {
			for _, page := range category.Pages {
				fmt.Fprintf(out, "- %s: %s\n", category.Name, page.Title)
			}
		}
		return nil
	})
}

func addCategory(tx *gorm.DB, seed seedCategory) (db.Category, error) {
	var category db.Category
	err := tx.Where("name = ?", seed.Name).First(&category).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return category, fmt.Errorf("find category %s: %w", seed.Name, err)
	}

	category.Name = seed.Name
	category.Views = seed.Views
	category.Likes = seed.Likes
	if err := tx.Omit(clause.Associations).Save(&category).Error; err != nil {
		return category, fmt.Errorf("save category %s: %w", seed.Name, err)
	}
	return category, nil
}

func addPage(tx *gorm.DB, category db.Category, seed seedPage) error {
	var page db.Page
	err := tx.Where("category_id = ? AND title = ?", category.ID, seed.Title).First(&page).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find page %s: %w", seed.Title, err)
	}

	page.CategoryID = category.ID
	page.Title = seed.Title
	page.URL = seed.URL
	page.Views = seed.Views
	if err := tx.Omit(clause.Associations).Save(&page).Error; err != nil {
		return fmt.Errorf("save page %s: %w", seed.Title, err)
	}
	return nil
}
