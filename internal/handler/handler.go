package handlers

import (
	"github.com/go-playground/validator/v10"

	"microchat/internal/config"
	"microchat/internal/service"
)

type Handlers struct {
	AuthService       service.AuthService
	UserService       service.UserService
	FollowService     service.FollowService
	ChatService       service.ChatService
	InvitationService service.InvitationService
	MessageService    service.MessageService
	NewsService       service.NewsService
	TablesService     service.TablesService
	Cfg               *config.Config
	Validate          *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:       service.Auth,
		UserService:       service.User,
		FollowService:     service.Follow,
		ChatService:       service.Chat,
		InvitationService: service.Invitation,
		MessageService:    service.Message,
		NewsService:       service.News,
		TablesService:     service.Tables,
		Cfg:               config,
		Validate:          validator.New(),
	}
}
