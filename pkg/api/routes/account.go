package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/account"
)

func AccountRouter(router fiber.Router, favouritesStore account.FavouritesStore, preferencesStore account.PreferencesStore) {
	router.Get("/favourites", func(c *fiber.Ctx) error {
		return listFavourites(c, favouritesStore)
	})
	router.Post("/favourites", func(c *fiber.Ctx) error {
		return saveFavourite(c, favouritesStore)
	})
	router.Delete("/favourites/:id", func(c *fiber.Ctx) error {
		return removeFavourite(c, favouritesStore)
	})

	router.Get("/preferences", func(c *fiber.Ctx) error {
		return getPreferences(c, preferencesStore)
	})
	router.Post("/preferences", func(c *fiber.Ctx) error {
		return setPreferences(c, preferencesStore)
	})
}

func listFavourites(c *fiber.Ctx, store account.FavouritesStore) error {
	favourites, err := store.List(c.UserContext())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(favourites)
}

func saveFavourite(c *fiber.Ctx, store account.FavouritesStore) error {
	var requestBody struct {
		From account.FavouriteStop `json:"from"`
		To   account.FavouriteStop `json:"to"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	favourite, created, err := store.Save(c.UserContext(), requestBody.From, requestBody.To)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"favourite": favourite,
		"created":   created,
	})
}

func removeFavourite(c *fiber.Ctx, store account.FavouritesStore) error {
	removed, err := store.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if !removed {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find favourite matching identifier",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func getPreferences(c *fiber.Ctx, store account.PreferencesStore) error {
	preferences, err := store.Get(c.UserContext())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(preferences)
}

func setPreferences(c *fiber.Ctx, store account.PreferencesStore) error {
	var preferences account.Preferences
	if err := c.BodyParser(&preferences); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	if err := store.Set(c.UserContext(), preferences); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
