package coupon

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidDiscountRange = errors.New("discount percentage must be between 1 and 100")
	ErrCodeCollision        = errors.New("could not generate a unique coupon code")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrPartnerNotFound      = errors.New("partner not found")

	ErrEmptyCode          = errors.New("coupon code is empty")
	ErrMalformedCode      = errors.New("coupon code must look like <word><percent>off")
	ErrCodePercentInvalid = errors.New("coupon code percentage must be between 1 and 100")
)

// codePattern captures the word and percent parts of a coupon code.
// Range checking is done separately so callers get a distinct reason.
var codePattern = regexp.MustCompile(`^([a-z]+)([0-9]{1,3})off$`)

const (
	maxCodeAttempts = 10
	suffixLetters   = "abcdefghijklmnopqrstuvwxyz"
)

// CouponService manages the coupon lifecycle: creation with generated codes,
// lookup, per-partner listing and activation toggling
type CouponService struct {
	db *gorm.DB
}

// NewCouponService creates a new coupon service
func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// CreateCoupon generates a code from the partner's business name and creates
// the coupon. The first attempt uses the plain word; on collision a random
// suffix is appended until the code is unique or maxCodeAttempts is reached.
func (s *CouponService) CreateCoupon(partnerID uuid.UUID, discountPercent int) (*models.Coupon, error) {
	if discountPercent < 1 || discountPercent > 100 {
		return nil, ErrInvalidDiscountRange
	}

	var partner models.User
	if err := s.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("error finding partner: %w", err)
	}
	if !partner.IsPartner() {
		return nil, ErrPartnerNotFound
	}

	word := codeWord(&partner)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate := word
		if attempt > 0 {
			candidate = word + randomSuffix(4)
		}
		code := fmt.Sprintf("%s%doff", candidate, discountPercent)

		coupon := models.Coupon{
			PartnerID:       partnerID,
			Code:            code,
			DiscountPercent: discountPercent,
			Active:          true,
		}
		err := s.db.Create(&coupon).Error
		if err == nil {
			return &coupon, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("error creating coupon: %w", err)
		}
	}
	return nil, ErrCodeCollision
}

// GetByCode looks a coupon up by its exact code
func (s *CouponService) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("error finding coupon: %w", err)
	}
	return &coupon, nil
}

// ListByPartner returns a partner's coupons, most recently created first
func (s *CouponService) ListByPartner(partnerID uuid.UUID) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := s.db.Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("error listing coupons: %w", err)
	}
	return coupons, nil
}

// SetActive toggles a coupon's active flag. Coupons are never deleted;
// deactivation is how a code is retired.
func (s *CouponService) SetActive(couponID uuid.UUID, active bool) error {
	result := s.db.Model(&models.Coupon{}).
		Where("id = ?", couponID).
		Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("error updating coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// ValidateFormat checks that a code matches <lowercase-word><1-100>off and
// returns a distinct reason when it does not
func ValidateFormat(code string) error {
	if code == "" {
		return ErrEmptyCode
	}
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return ErrMalformedCode
	}
	percent, err := strconv.Atoi(m[2])
	if err != nil || percent < 1 || percent > 100 {
		return ErrCodePercentInvalid
	}
	return nil
}

// codeWord derives the lowercase alpha word for a partner's codes from the
// business name, falling back to the first name
func codeWord(partner *models.User) string {
	source := partner.BusinessName
	if source == "" {
		source = partner.FirstName
	}
	word := ""
	for _, r := range slug.Make(source) {
		if r >= 'a' && r <= 'z' {
			word += string(r)
		}
	}
	if word == "" {
		word = "partner"
	}
	return word
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixLetters[rand.Intn(len(suffixLetters))]
	}
	return string(b)
}
