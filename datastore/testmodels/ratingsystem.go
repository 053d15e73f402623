/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds domain types shared by tests.
package testmodels

import "github.com/go-openapi/strfmt"

type RatingSystem struct {

	// Timestamp when the rating system was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `dynamodbav:"CreatedAt" audit:"created_at"`

	// Principal that created the rating system.
	CreatedBy string `dynamodbav:"CreatedBy,omitempty" audit:"created_by"`

	// A description of the rating system.
	// Required: true
	Description string `dynamodbav:"Description" validate:"required"`

	// Unique identifier for the rating system, generated on first save.
	ID string `dynamodbav:"Id" ddbkey:"hash,autogenerate"`

	// Name of the rating system.
	// Required: true
	Name string `dynamodbav:"Name" validate:"required,max=128"`

	// site Url
	SiteURL string `dynamodbav:"SiteUrl,omitempty" validate:"omitempty,url"`

	// Timestamp when the rating system was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `dynamodbav:"UpdatedAt" audit:"modified_at"`
}

// PlayerRatingKey identifies one player's rating within a rating system.
type PlayerRatingKey struct {
	RatingSystemID string `dynamodbav:"RatingSystemId" ddbkey:"hash"`
	PlayerID       string `dynamodbav:"PlayerId" ddbkey:"range"`
}

type PlayerRating struct {
	Key PlayerRatingKey `dynamodbav:"Key" ddbkey:"id"`

	// Current rating.
	Rating int64 `dynamodbav:"Rating" validate:"gte=0"`

	// Club the player is registered with, indexed for per-club queries.
	Club string `dynamodbav:"Club,omitempty" ddbindex:"hash,ByClub"`

	UpdatedAt strfmt.DateTime `dynamodbav:"UpdatedAt" audit:"modified_at"`
}
