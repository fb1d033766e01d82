package repository

import (
	"fmt"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/utils"

	"gorm.io/gorm"
)

// SeedDemoData wipes and repopulates the database with a small demo data
// set. Used by cmd/seed for local development only.
func SeedDemoData(db *gorm.DB) error {
	// Delete in FK-safe order.
	for _, table := range []string{"payment_sessions", "bookings", "rooms", "hotels", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}

	now := time.Now().UTC()

	users := []userModel{
		{Email: "admin@hotelbooking.vn", Role: string(domain.RoleAdmin), FullName: strPtr("Admin"), CreatedAt: now, UpdatedAt: now},
		{Email: "linh@gmail.com", Role: string(domain.RoleGuest), FullName: strPtr("Linh Nguyen"), CreatedAt: now, UpdatedAt: now},
		{Email: "minh@gmail.com", Role: string(domain.RoleGuest), FullName: strPtr("Minh Tran"), CreatedAt: now, UpdatedAt: now},
		{Email: "owner@saigonriver.vn", Role: string(domain.RolePartner), FullName: strPtr("Saigon River Hotels"), CreatedAt: now, UpdatedAt: now},
		{Email: "owner@hanoiview.vn", Role: string(domain.RolePartner), FullName: strPtr("Hanoi View Group"), CreatedAt: now, UpdatedAt: now},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}

	hotels := []hotelModel{
		{OwnerID: users[3].ID, Name: "Saigon River Hotel", City: "Ho Chi Minh City", Address: "12 Ton Duc Thang, District 1", CreatedAt: now, UpdatedAt: now},
		{OwnerID: users[4].ID, Name: "Hanoi View Hotel", City: "Hanoi", Address: "88 Hang Bac, Hoan Kiem", CreatedAt: now, UpdatedAt: now},
	}
	for i := range hotels {
		if err := db.Create(&hotels[i]).Error; err != nil {
			return fmt.Errorf("seed hotel %s: %w", hotels[i].Name, err)
		}
	}

	var rooms []roomModel
	for _, h := range hotels {
		for j := 1; j <= 3; j++ {
			room := roomModel{
				HotelID:       h.ID,
				Name:          fmt.Sprintf("Deluxe %d0%d", j, j),
				PricePerNight: int64(400000 + j*100000),
				MaxAdults:     2,
				MaxChildren:   j - 1,
				Photos:        utils.PhotosToString([]string{fmt.Sprintf("/static/rooms/%d-%d.jpg", h.ID, j)}),
				IsActive:      true,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := db.Create(&room).Error; err != nil {
				return fmt.Errorf("seed room %s: %w", room.Name, err)
			}
			rooms = append(rooms, room)
		}
	}

	// A confirmed stay next week and a pending one awaiting payment.
	nextWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7)
	bookings := []bookingModel{
		{
			RoomID: rooms[0].ID, HotelID: rooms[0].HotelID, UserID: users[1].ID,
			StartDate: nextWeek, EndDate: nextWeek.AddDate(0, 0, 3),
			Adults: 2, TotalPrice: 3 * rooms[0].PricePerNight,
			Status: string(domain.BookingConfirmed), PaymentStatus: string(domain.PaymentConfirmed),
			CreatedAt: now, UpdatedAt: now,
		},
		{
			RoomID: rooms[3].ID, HotelID: rooms[3].HotelID, UserID: users[2].ID,
			StartDate: nextWeek.AddDate(0, 0, 2), EndDate: nextWeek.AddDate(0, 0, 4),
			Adults: 1, TotalPrice: 2 * rooms[3].PricePerNight,
			Status: string(domain.BookingPending), PaymentStatus: string(domain.PaymentPending),
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for i := range bookings {
		if err := db.Create(&bookings[i]).Error; err != nil {
			return fmt.Errorf("seed booking: %w", err)
		}
	}

	return nil
}

func strPtr(s string) *string { return &s }
