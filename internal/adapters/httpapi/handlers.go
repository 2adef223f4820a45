package httpapi

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jose-valero/spinboard/internal/domain"
)

type recordWinReq struct {
	EmployeeID string `json:"employeeId"`
}

type employeeReq struct {
	Name string `json:"name"`
	Wins *int   `json:"wins"`
}

func (s *Server) handleRoster(c *fiber.Ctx) error {
	ctx, cancel := s.ctx(c)
	defer cancel()

	roster, err := s.spin.GetRoster(ctx)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(roster)
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	ctx, cancel := s.ctx(c)
	defer cancel()

	board, err := s.spin.GetLeaderboard(ctx)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(board)
}

func (s *Server) handleRandom(c *fiber.Ctx) error {
	ctx, cancel := s.ctx(c)
	defer cancel()

	e, err := s.spin.GetRandomParticipant(ctx)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(e)
}

func (s *Server) handleRecordWin(c *fiber.Ctx) error {
	var body recordWinReq
	if err := c.BodyParser(&body); err != nil {
		return s.fail(c, fmt.Errorf("bad body: %v: %w", err, domain.ErrInvalidInput))
	}
	id := strings.TrimSpace(body.EmployeeID)
	if id == "" {
		return s.fail(c, fmt.Errorf("employeeId is required: %w", domain.ErrInvalidInput))
	}

	ctx, cancel := s.ctx(c)
	defer cancel()
	board, err := s.spin.RecordWin(ctx, id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(board)
}

func (s *Server) handleSpin(c *fiber.Ctx) error {
	ctx, cancel := s.ctx(c)
	defer cancel()

	res, err := s.spin.Spin(ctx)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(res)
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	var body employeeReq
	if err := c.BodyParser(&body); err != nil {
		return s.fail(c, fmt.Errorf("bad body: %v: %w", err, domain.ErrInvalidInput))
	}
	wins := 0
	if body.Wins != nil {
		wins = *body.Wins
	}

	ctx, cancel := s.ctx(c)
	defer cancel()
	e, err := s.employees.Create(ctx, body.Name, wins)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

// handleUpdate: edición completa, wins es obligatorio.
func (s *Server) handleUpdate(c *fiber.Ctx) error {
	var body employeeReq
	if err := c.BodyParser(&body); err != nil {
		return s.fail(c, fmt.Errorf("bad body: %v: %w", err, domain.ErrInvalidInput))
	}
	if body.Wins == nil {
		return s.fail(c, fmt.Errorf("wins is required: %w", domain.ErrInvalidInput))
	}

	ctx, cancel := s.ctx(c)
	defer cancel()
	e, err := s.employees.Update(ctx, c.Params("id"), body.Name, *body.Wins)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(e)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.employees.Delete(ctx, c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Employee deleted successfully"})
}
