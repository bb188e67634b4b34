package seed

import "github.com/helpdesk-platform/intake-service/internal/domain"

// kbFixtures is the baseline article set for a fresh installation. Content
// mirrors the most common helpdesk requests in the languages operators
// actually answer in.
func kbFixtures(ownerID string) []domain.KBArticle {
	return []domain.KBArticle{
		{
			Titles: map[string]string{
				"ru": "Сброс пароля VPN",
				"kk": "VPN құпия сөзін қалпына келтіру",
				"en": "VPN password reset",
			},
			Bodies: map[string]string{
				"ru": "Откройте портал self-service, выберите «VPN» и нажмите «Сбросить пароль». Новый пароль придет на рабочую почту в течение 5 минут. Если письмо не пришло, проверьте папку «Спам» и повторите запрос.",
				"kk": "Self-service порталын ашып, «VPN» бөлімін таңдаңыз да, «Құпия сөзді қалпына келтіру» батырмасын басыңыз. Жаңа құпия сөз 5 минут ішінде жұмыс поштаңызға келеді.",
				"en": "Open the self-service portal, choose \"VPN\" and click \"Reset password\". The new password arrives at your work mailbox within 5 minutes.",
			},
			Category:  "access_vpn",
			Type:      domain.KBTypeGuide,
			Keywords:  []string{"vpn", "пароль", "сброс", "reset", "password", "құпия"},
			Published: true,
			OwnerID:   ownerID,
		},
		{
			Titles: map[string]string{
				"ru": "VPN не подключается: частые причины",
				"en": "VPN connection troubleshooting",
			},
			Bodies: map[string]string{
				"ru": "Проверьте подключение к интернету, перезапустите клиент VPN и убедитесь, что сертификат не истек. Коды ошибок 789 и 809 обычно означают блокировку порта — переключитесь на сеть без корпоративного файрвола или обратитесь к оператору.",
				"en": "Check your internet connection, restart the VPN client and verify the certificate has not expired. Error codes 789 and 809 usually indicate a blocked port.",
			},
			Category:  "access_vpn",
			Type:      domain.KBTypeFAQ,
			Keywords:  []string{"vpn", "ошибка", "789", "809", "подключение", "connection"},
			Published: true,
			OwnerID:   ownerID,
		},
		{
			Titles: map[string]string{
				"ru": "Разблокировка учетной записи",
				"kk": "Есептік жазбаны құлыптан шығару",
				"en": "Account unlock",
			},
			Bodies: map[string]string{
				"ru": "Учетная запись блокируется после пяти неверных попыток входа. Подождите 15 минут или обратитесь к оператору с номером вашего табеля.",
				"kk": "Есептік жазба бес қате енгізуден кейін құлыпталады. 15 минут күтіңіз немесе операторға хабарласыңыз.",
				"en": "Accounts lock after five failed sign-in attempts. Wait 15 minutes or contact an operator with your employee number.",
			},
			Category:  "account_password",
			Type:      domain.KBTypeGuide,
			Keywords:  []string{"пароль", "логин", "заблокирован", "locked", "account", "password"},
			Published: true,
			OwnerID:   ownerID,
		},
		{
			Titles: map[string]string{
				"ru": "Принтер не печатает",
				"en": "Printer does not print",
			},
			Bodies: map[string]string{
				"ru": "Проверьте, что принтер включен и выбран как устройство по умолчанию. Очистите очередь печати и повторите попытку. Если горит индикатор картриджа, создайте заявку на замену.",
				"en": "Make sure the printer is on and selected as the default device. Clear the print queue and retry.",
			},
			Category:  "hardware_printer",
			Type:      domain.KBTypeFAQ,
			Keywords:  []string{"принтер", "printer", "печать", "картридж", "queue"},
			Published: true,
			OwnerID:   ownerID,
		},
		{
			Titles: map[string]string{
				"ru": "Настройка Outlook на новом рабочем месте",
				"en": "Outlook setup on a new workstation",
			},
			Bodies: map[string]string{
				"ru": "Запустите Outlook, введите рабочий адрес и дождитесь автоконфигурации. Профиль создается автоматически из Active Directory.",
				"en": "Start Outlook, enter your work address and wait for autodiscover to complete. The profile is created from Active Directory.",
			},
			Category:  "email_outlook",
			Type:      domain.KBTypeGuide,
			Keywords:  []string{"outlook", "почта", "email", "профиль", "autodiscover"},
			Published: true,
			OwnerID:   ownerID,
		},
		{
			// Draft pending review; must stay invisible to the matcher.
			Titles: map[string]string{
				"ru": "Регламент выдачи доступа к VPN (черновик)",
			},
			Bodies: map[string]string{
				"ru": "Черновик регламента: доступ к VPN выдается по заявке руководителя после согласования с ИБ.",
			},
			Category:  "access_vpn",
			Type:      domain.KBTypePolicy,
			Keywords:  []string{"vpn", "регламент", "доступ"},
			Published: false,
			OwnerID:   ownerID,
		},
	}
}
