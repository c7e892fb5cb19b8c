package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/server/posts"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
	"github.com/dmitrijs2005/flatcms/internal/server/users"
)

const actionSignup = "signup"

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Action   string `json:"action"`
}

type userView struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token   string   `json:"token"`
	User    userView `json:"user"`
	Message string   `json:"message,omitempty"`
}

type listResponse struct {
	Blogs      []posts.Post       `json:"blogs"`
	Pagination records.Pagination `json:"pagination"`
}

type statsResponse struct {
	Success bool        `json:"success"`
	Stats   posts.Stats `json:"stats"`
}

type renderedPost struct {
	posts.Post
	HTML string `json:"html"`
}

type saveResponse struct {
	Slug    string `json:"slug"`
	Success bool   `json:"success"`
}

func sessionResponse(s *users.Session) authResponse {
	return authResponse{
		Token: s.Token,
		User:  userView{Email: s.User.Email, Role: s.User.Role},
	}
}

// handleAuth signs a user up when action is "signup" and logs in otherwise.
func (s *Server) handleAuth(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	ctx := c.UserContext()

	if req.Action == actionSignup {
		session, err := s.users.Signup(ctx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return fiber.NewError(fiber.StatusConflict, "user already exists")
			}
			return err
		}
		resp := sessionResponse(session)
		resp.Message = "user account created"
		s.logger.Info(ctx, "Registered", "email", session.User.Email)
		return c.Status(fiber.StatusCreated).JSON(resp)
	}

	session, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse(session))
}

func (s *Server) handleListBlogs(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if c.Query("action") == "stats" {
		stats, err := s.posts.Stats(ctx)
		if err != nil {
			return err
		}
		return c.JSON(statsResponse{Success: true, Stats: stats})
	}

	page, limit := records.ParsePaging(c.Query("page"), c.Query("limit"))
	result, err := s.posts.List(ctx, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(listResponse{Blogs: result.Items, Pagination: result.Pagination})
}

func (s *Server) handleGetBlog(c *fiber.Ctx) error {
	p, err := s.posts.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "blog not found")
		}
		return err
	}

	if c.Query("format") != "html" {
		return c.JSON(p)
	}

	html, err := s.posts.RenderHTML(p)
	if err != nil {
		return err
	}
	return c.JSON(renderedPost{Post: p, HTML: html})
}

func (s *Server) handleCreateBlog(c *fiber.Ctx) error {
	return s.saveBlog(c, "", fiber.StatusCreated)
}

func (s *Server) handleUpdateBlog(c *fiber.Ctx) error {
	return s.saveBlog(c, c.Params("slug"), fiber.StatusOK)
}

func (s *Server) saveBlog(c *fiber.Ctx, slug string, status int) error {
	var in posts.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	saved, err := s.posts.Save(c.UserContext(), slug, in, claimsFrom(c).Email)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return fiber.NewError(fiber.StatusConflict, "blog already exists or was changed concurrently")
		}
		return err
	}
	return c.Status(status).JSON(saveResponse{Slug: saved, Success: true})
}

func (s *Server) handleDeleteBlog(c *fiber.Ctx) error {
	slug := c.Params("slug")

	if err := s.posts.Delete(c.UserContext(), slug, claimsFrom(c).Email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "blog not found")
		}
		return err
	}
	return c.JSON(saveResponse{Slug: slug, Success: true})
}
