package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"tiffycooks/config"
	"tiffycooks/models"
	"tiffycooks/utils"
)

func InitStripe() {
	stripe.Key = config.AppConfig.StripeSecretKey
}

// CreateProUpgradeIntent creates a Stripe Payment Intent for the pro
// upgrade (unlimited AI usage).
func CreateProUpgradeIntent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if user.ProAccount {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Account is already pro", nil)
	}

	customerID, err := getOrCreateStripeCustomer(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process payment", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(config.AppConfig.ProPriceCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		Metadata: map[string]string{
			"user_id": user.ID,
			"upgrade": "pro",
		},
		Description: stripe.String("TiffyCooks pro upgrade"),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create payment intent", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"client_secret": intent.ClientSecret,
		"amount":        intent.Amount,
	}))
}

// HandleStripeWebhook flips the pro flag once the upgrade payment
// succeeds.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	event, err := webhook.ConstructEvent(payload, c.Get("Stripe-Signature"),
		config.AppConfig.StripeWebhookSecret)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid webhook signature", nil)
	}

	if event.Type != "payment_intent.succeeded" {
		return c.SendStatus(fiber.StatusOK)
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid webhook payload", err)
	}

	userID := intent.Metadata["user_id"]
	if userID == "" || intent.Metadata["upgrade"] != "pro" {
		return c.SendStatus(fiber.StatusOK)
	}

	if err := config.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("pro_account", true).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to activate pro account", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func getOrCreateStripeCustomer(user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	if err := config.DB.Model(user).Update("stripe_customer_id", cust.ID).Error; err != nil {
		return "", err
	}
	return cust.ID, nil
}
