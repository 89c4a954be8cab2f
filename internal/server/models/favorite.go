package models

// FavoriteCar links a user to a car they marked as favorite. The pair
// (UserID, CarID) is unique.
type FavoriteCar struct {
	ID     string
	UserID string
	CarID  string
	Car    *Car
}
