// Package email implementa el colaborador de notificaciones por correo.
package email

import (
	"fmt"

	"github.com/labsalud/laboratorio-api/internal/application/usecase"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/pkg/config"
	"gopkg.in/gomail.v2"
)

var _ usecase.NotificadorRecuperacion = (*NotificadorSMTP)(nil)

// NotificadorSMTP envía el correo de recuperación de contraseña vía SMTP.
type NotificadorSMTP struct {
	cfg config.SMTPConfig
}

// NewNotificadorSMTP construye el notificador con la configuración SMTP.
func NewNotificadorSMTP(cfg config.SMTPConfig) *NotificadorSMTP {
	return &NotificadorSMTP{cfg: cfg}
}

// EnviarRecuperacion entrega el token al correo del usuario. El fallo se
// devuelve como domain.ErrNotificacion envolviendo la causa, para que el
// llamador lo distinga de fallos del núcleo.
func (n *NotificadorSMTP) EnviarRecuperacion(email, token, nombre string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Recuperación de contraseña")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\n"+
			"Recibimos una solicitud para restablecer tu contraseña.\n"+
			"Tu código de recuperación es: %s\n\n"+
			"El código es válido por 1 hora y admite un máximo de 3 intentos.\n"+
			"Si no solicitaste este cambio, ignora este mensaje.\n",
		nombre, token,
	))

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificacion, err)
	}
	return nil
}
