package entity

import "time"

// Package is a curated beauty package as served by the backend.
type Package struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Concepts    []string `json:"concepts,omitempty"`
	Region      string   `json:"region,omitempty"`
	Price       int      `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty"`
}

type PackagePage struct {
	Items []Package `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int       `json:"total"`
}

type Review struct {
	ID        int64     `json:"id"`
	PackageID int64     `json:"packageId"`
	UserID    string    `json:"userId,omitempty"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
