package services

import "context"

// Navigator moves the user interface to another screen. Paths follow the
// web client's routes ("/login", "/reports/share-success", ...).
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	if f != nil {
		f(ctx, path)
	}
}

const (
	PathLogin        = "/login"
	PathShareSuccess = "/reports/share-success"
)

func roomPhotosPath(propertyID, roomID string) string {
	return "/properties/" + propertyID + "/rooms/" + roomID + "/photos"
}

func navigate(ctx context.Context, nav Navigator, path string) {
	if nav != nil {
		nav.Navigate(ctx, path)
	}
}
