package rob

import (
	"testing"

	"dinks/bot/common"
	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobEmbed(t *testing.T) {
	tests := []struct {
		name     string
		result   *models.RobResult
		title    string
		contains string
		color    int
	}{
		{
			name:     "success",
			result:   &models.RobResult{Outcome: models.RobOutcomeSuccess, Stolen: decimal.NewFromInt(150)},
			title:    "🦹 Robbery successful",
			contains: "of **150**",
			color:    common.ColorSuccess,
		},
		{
			name:     "left behind",
			result:   &models.RobResult{Outcome: models.RobOutcomeLeftBehind, Paid: decimal.NewFromInt(40)},
			title:    "💸 Botched robbery",
			contains: "dropped **40**",
			color:    common.ColorWarning,
		},
		{
			name:     "caught",
			result:   &models.RobResult{Outcome: models.RobOutcomeCaught, Paid: decimal.NewFromInt(206)},
			title:    "🚔 Caught red-handed",
			contains: "paid **206**",
			color:    common.ColorDanger,
		},
		{
			name:     "escaped",
			result:   &models.RobResult{Outcome: models.RobOutcomeEscaped},
			title:    "🏃 Clean getaway",
			contains: "got away unharmed",
			color:    common.ColorInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.result.AttackerID = 1
			tt.result.TargetID = 2
			tt.result.Roll = 63
			tt.result.Threshold = 51

			embed := robEmbed(tt.result)
			assert.Equal(t, tt.title, embed.Title)
			assert.Equal(t, tt.color, embed.Color)
			assert.Contains(t, embed.Description, tt.contains)
			assert.Contains(t, embed.Description, "<@1>")
			assert.Equal(t, "Rolled 63 against 51", embed.Footer.Text)
			assert.Empty(t, embed.Fields)
		})
	}
}

func TestRobEmbed_Sentence(t *testing.T) {
	result := &models.RobResult{
		AttackerID: 1,
		TargetID:   2,
		Outcome:    models.RobOutcomeCaught,
		Paid:       decimal.NewFromInt(50),
		Prison: &models.PrisonRecord{
			UserID:        1,
			Debt:          decimal.NewFromInt(156),
			DaysRemaining: 1,
		},
	}

	embed := robEmbed(result)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "1 day(s) with **156** 🥞 of debt left", embed.Fields[0].Value)
}
