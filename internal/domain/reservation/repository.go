package reservation

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"tablehub/internal/database"
	"tablehub/internal/domain/restaurant"
)

const activeSlotIndex = "ux_reservations_active_slot"

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// stringList is stored as a JSON array in a text column.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("stringList: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		out = nil
	}
	*l = out
	return nil
}

type reservationModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	UserID              int64      `gorm:"column:user_id;not null;index"`
	RestaurantID        int64      `gorm:"column:restaurant_id;not null;index"`
	Date                string     `gorm:"column:reservation_date;type:varchar(10);not null"`
	Time                string     `gorm:"column:reservation_time;type:varchar(32);not null"`
	PartySize           int        `gorm:"column:party_size;not null"`
	SpecialRequests     string     `gorm:"column:special_requests;type:text"`
	DietaryRestrictions stringList `gorm:"column:dietary_restrictions;type:text"`
	Occasion            string     `gorm:"column:occasion;type:varchar(64)"`
	ContactName         string     `gorm:"column:contact_name;type:varchar(255);not null"`
	ContactPhone        string     `gorm:"column:contact_phone;type:varchar(32);not null"`
	ContactEmail        string     `gorm:"column:contact_email;type:varchar(255);not null"`
	Status              string     `gorm:"column:status;type:varchar(16);not null;index"`
	ConfirmationCode    string     `gorm:"column:confirmation_code;type:varchar(6);not null;uniqueIndex:ux_reservations_confirmation_code"`
	ConfirmedAt         *time.Time `gorm:"column:confirmed_at"`
	CancelledAt         *time.Time `gorm:"column:cancelled_at"`
	CancelledBy         string     `gorm:"column:cancelled_by;type:varchar(16)"`
	CancellationReason  string     `gorm:"column:cancellation_reason;type:text"`
	IsDeleted           bool       `gorm:"column:is_deleted;not null;default:false;index"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomain(m reservationModel) Reservation {
	return Reservation{
		ID:                  m.ID,
		UserID:              m.UserID,
		RestaurantID:        m.RestaurantID,
		Date:                m.Date,
		Time:                m.Time,
		PartySize:           m.PartySize,
		SpecialRequests:     m.SpecialRequests,
		DietaryRestrictions: []string(m.DietaryRestrictions),
		Occasion:            m.Occasion,
		ContactName:         m.ContactName,
		ContactPhone:        m.ContactPhone,
		ContactEmail:        m.ContactEmail,
		Status:              Status(m.Status),
		ConfirmationCode:    m.ConfirmationCode,
		ConfirmedAt:         m.ConfirmedAt,
		CancelledAt:         m.CancelledAt,
		CancelledBy:         ActorKind(m.CancelledBy),
		CancellationReason:  m.CancellationReason,
		IsDeleted:           m.IsDeleted,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toModel(r *Reservation) reservationModel {
	return reservationModel{
		ID:                  r.ID,
		UserID:              r.UserID,
		RestaurantID:        r.RestaurantID,
		Date:                r.Date,
		Time:                r.Time,
		PartySize:           r.PartySize,
		SpecialRequests:     r.SpecialRequests,
		DietaryRestrictions: stringList(r.DietaryRestrictions),
		Occasion:            r.Occasion,
		ContactName:         r.ContactName,
		ContactPhone:        r.ContactPhone,
		ContactEmail:        r.ContactEmail,
		Status:              string(r.Status),
		ConfirmationCode:    r.ConfirmationCode,
		ConfirmedAt:         r.ConfirmedAt,
		CancelledAt:         r.CancelledAt,
		CancelledBy:         string(r.CancelledBy),
		CancellationReason:  r.CancellationReason,
		IsDeleted:           r.IsDeleted,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// AutoMigrate creates the table and the partial unique index that makes
// the slot invariant hold under concurrent writers. Both SQLite and
// PostgreSQL support partial indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&reservationModel{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ` + activeSlotIndex + `
		ON reservations (restaurant_id, reservation_date, reservation_time)
		WHERE status IN ('pending', 'confirmed') AND is_deleted = false`).Error
}

func statusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func hasConflict(db *gorm.DB, restaurantID int64, date, slot string, excludeID int64) (bool, error) {
	q := db.Model(&reservationModel{}).
		Where("restaurant_id = ? AND reservation_date = ? AND reservation_time = ?", restaurantID, date, slot).
		Where("status IN ? AND is_deleted = ?", statusStrings(ActiveStatuses), false)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// classifyWriteError maps unique violations to domain errors.
func classifyWriteError(err error) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(constraint, "confirmation_code") {
		return errCodeTaken
	}
	return ErrSlotTaken
}

func (r *GormRepository) HasConflict(ctx context.Context, restaurantID int64, date, slot string) (bool, error) {
	return hasConflict(r.db.WithContext(ctx), restaurantID, date, slot, 0)
}

func (r *GormRepository) CreateIfSlotFree(ctx context.Context, res *Reservation) error {
	m := toModel(res)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := hasConflict(tx, m.RestaurantID, m.Date, m.Time, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return classifyWriteError(err)
	}
	*res = toDomain(m)
	return nil
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormRepository) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	return r.first(ctx, "confirmation_code = ?", code)
}

func (r *GormRepository) first(ctx context.Context, cond string, arg any) (*Reservation, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Where("is_deleted = ?", false).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d := toDomain(m)
	return &d, nil
}

func (r *GormRepository) List(ctx context.Context, f ListFilter) ([]Reservation, int64, error) {
	q := r.db.WithContext(ctx).Model(&reservationModel{}).Where("is_deleted = ?", false)
	if f.userID > 0 {
		q = q.Where("user_id = ?", f.userID)
	}
	if f.ownerID > 0 {
		owned := r.db.Unscoped().Model(&restaurant.Restaurant{}).Select("id").Where("owner_id = ?", f.ownerID)
		q = q.Where("restaurant_id IN (?)", owned)
	}
	if f.RestaurantID > 0 {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Date != "" {
		q = q.Where("reservation_date = ?", f.Date)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reservationModel
	err := q.Order("reservation_date ASC, reservation_time ASC, id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomain(m))
	}
	return out, total, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id int64, from []Status, to Status, fields map[string]any) (bool, error) {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["status"] = string(to)

	tx := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND is_deleted = ? AND status IN ?", id, false, statusStrings(from)).
		Updates(updates)
	if tx.Error != nil {
		return false, classifyWriteError(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *GormRepository) UpdateDetails(ctx context.Context, res *Reservation, from []Status, recheckSlot bool) (bool, error) {
	updates := map[string]any{
		"reservation_date":     res.Date,
		"reservation_time":     res.Time,
		"party_size":           res.PartySize,
		"special_requests":     res.SpecialRequests,
		"dietary_restrictions": stringList(res.DietaryRestrictions),
		"occasion":             res.Occasion,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if recheckSlot {
			taken, err := hasConflict(tx, res.RestaurantID, res.Date, res.Time, res.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrSlotTaken
			}
		}

		result := tx.Model(&reservationModel{}).
			Where("id = ? AND is_deleted = ? AND status IN ?", res.ID, false, statusStrings(from)).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotUpdated
		}
		return nil
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errNotUpdated):
		return false, nil
	default:
		return false, classifyWriteError(err)
	}
}

func (r *GormRepository) SoftDelete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
