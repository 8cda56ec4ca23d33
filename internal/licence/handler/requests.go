package handler

import (
	"time"

	"affilia/internal/licence/models"
	"affilia/internal/licence/service"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
)

const birthDateLayout = "2006-01-02"

type createLicenceRequest struct {
	ClubID        int64  `json:"club_id"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Sex           string `json:"sex"`
	BirthDate     string `json:"birth_date"`
	Email         string `json:"email"`
	MobilePhone   string `json:"mobile_phone"`
	LandlinePhone string `json:"landline_phone"`
	IsIncluded    bool   `json:"is_included"`
}

func (r createLicenceRequest) toInput() (service.CreateInput, error) {
	input := service.CreateInput{
		ClubID:          domain.ClubID(r.ClubID),
		LastName:        r.LastName,
		FirstName:       r.FirstName,
		Sex:             r.Sex,
		Email:           r.Email,
		MobilePhone:     r.MobilePhone,
		LandlinePhone:   r.LandlinePhone,
		RequestIncluded: r.IsIncluded,
	}
	if r.BirthDate != "" {
		birthDate, err := time.Parse(birthDateLayout, r.BirthDate)
		if err != nil {
			return service.CreateInput{}, dErrors.New(dErrors.CodeBadRequest, "invalid birth date, expected YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}
	return input, nil
}

// updateLicenceRequest carries a partial update; absent fields stay
// untouched. An empty birth_date string clears the date.
type updateLicenceRequest struct {
	LastName      *string `json:"last_name"`
	FirstName     *string `json:"first_name"`
	Sex           *string `json:"sex"`
	BirthDate     *string `json:"birth_date"`
	Email         *string `json:"email"`
	MobilePhone   *string `json:"mobile_phone"`
	LandlinePhone *string `json:"landline_phone"`
	PaymentStatus *string `json:"payment_status"`
}

func (r updateLicenceRequest) toPatch() (models.Patch, error) {
	patch := models.Patch{
		LastName:      r.LastName,
		FirstName:     r.FirstName,
		Sex:           r.Sex,
		Email:         r.Email,
		MobilePhone:   r.MobilePhone,
		LandlinePhone: r.LandlinePhone,
	}
	if r.BirthDate != nil {
		patch.BirthDateSet = true
		if *r.BirthDate != "" {
			birthDate, err := time.Parse(birthDateLayout, *r.BirthDate)
			if err != nil {
				return models.Patch{}, dErrors.New(dErrors.CodeBadRequest, "invalid birth date, expected YYYY-MM-DD")
			}
			patch.BirthDate = &birthDate
		}
	}
	if r.PaymentStatus != nil {
		status := models.PaymentStatus(*r.PaymentStatus)
		patch.PaymentStatus = &status
	}
	return patch, nil
}

type actionRequest struct {
	Token string `json:"token"`
}

type batchValidateRequest struct {
	IDs   []int64 `json:"ids"`
	Token string  `json:"token"`
}

type licenceResponse struct {
	ID            int64  `json:"id"`
	ClubID        int64  `json:"club_id"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Sex           string `json:"sex,omitempty"`
	BirthDate     string `json:"birth_date,omitempty"`
	Email         string `json:"email,omitempty"`
	MobilePhone   string `json:"mobile_phone,omitempty"`
	LandlinePhone string `json:"landline_phone,omitempty"`
	Status        string `json:"statut"`
	IsIncluded    bool   `json:"is_included"`
	PaymentStatus string `json:"payment_status"`
	Category      string `json:"categorie"`
}

func toLicenceResponse(licence *models.Licence) licenceResponse {
	resp := licenceResponse{
		ID:            licence.ID.Int64(),
		ClubID:        licence.ClubID.Int64(),
		LastName:      licence.LastName,
		FirstName:     licence.FirstName,
		Sex:           licence.Sex,
		Email:         licence.Email,
		MobilePhone:   licence.MobilePhone,
		LandlinePhone: licence.LandlinePhone,
		Status:        string(licence.Status),
		IsIncluded:    licence.IsIncluded,
		PaymentStatus: string(licence.PaymentStatus),
		Category:      string(licence.Category),
	}
	if licence.BirthDate != nil {
		resp.BirthDate = licence.BirthDate.Format(birthDateLayout)
	}
	return resp
}
