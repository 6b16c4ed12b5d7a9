package discovery

// ouiVendors is the bundled OUI registry, keyed by the first three octets
// of the MAC address in colon-separated uppercase form. It covers the
// vendors most commonly seen on small-business and home networks; the
// full IEEE registry is deliberately not shipped.
var ouiVendors = map[string]string{
	// Apple
	"00:03:93": "Apple, Inc.",
	"00:1B:63": "Apple, Inc.",
	"3C:22:FB": "Apple, Inc.",
	"F0:18:98": "Apple, Inc.",
	"A4:83:E7": "Apple, Inc.",
	"BC:D0:74": "Apple, Inc.",
	"D0:81:7A": "Apple, Inc.",

	// Cisco / Meraki
	"00:00:0C": "Cisco Systems, Inc",
	"00:1A:A1": "Cisco Systems, Inc",
	"58:97:1E": "Cisco Systems, Inc",
	"E0:55:3D": "Cisco Meraki",
	"88:15:44": "Cisco Meraki",

	// Dell
	"00:14:22": "Dell Inc.",
	"F8:B1:56": "Dell Inc.",
	"18:A9:9B": "Dell Inc.",
	"B8:CA:3A": "Dell Inc.",

	// HP / HPE / Aruba
	"00:1B:78": "Hewlett Packard",
	"3C:D9:2B": "Hewlett Packard",
	"94:57:A5": "Hewlett Packard Enterprise",
	"00:0B:86": "Aruba, a Hewlett Packard Enterprise Company",
	"24:DE:C6": "Aruba, a Hewlett Packard Enterprise Company",

	// Intel
	"00:02:B3": "Intel Corporate",
	"3C:A9:F4": "Intel Corporate",
	"A0:36:9F": "Intel Corporate",
	"E4:B9:7A": "Intel Corporate",

	// Lenovo
	"54:EE:75": "Lenovo Mobile Communication Technology Ltd.",
	"98:FA:9B": "Lenovo",

	// Microsoft (includes Hyper-V virtual adapters)
	"00:15:5D": "Microsoft Corporation",
	"28:18:78": "Microsoft Corporation",
	"58:82:A8": "Microsoft Corporation",

	// VMware / VirtualBox / QEMU
	"00:50:56": "VMware, Inc.",
	"00:0C:29": "VMware, Inc.",
	"08:00:27": "Oracle VirtualBox",
	"52:54:00": "QEMU/KVM Virtual NIC",

	// Raspberry Pi
	"B8:27:EB": "Raspberry Pi Foundation",
	"DC:A6:32": "Raspberry Pi Trading Ltd",
	"E4:5F:01": "Raspberry Pi Trading Ltd",
	"28:CD:C1": "Raspberry Pi Trading Ltd",

	// Espressif (ESP8266/ESP32 IoT boards)
	"24:0A:C4": "Espressif Inc.",
	"84:CC:A8": "Espressif Inc.",
	"A4:CF:12": "Espressif Inc.",
	"EC:FA:BC": "Espressif Inc.",

	// Ubiquiti
	"24:A4:3C": "Ubiquiti Networks Inc.",
	"F0:9F:C2": "Ubiquiti Networks Inc.",
	"78:8A:20": "Ubiquiti Networks Inc.",
	"B4:FB:E4": "Ubiquiti Networks Inc.",

	// MikroTik
	"4C:5E:0C": "Routerboard.com",
	"D4:CA:6D": "Routerboard.com",
	"CC:2D:E0": "Routerboard.com",

	// TP-Link
	"50:C7:BF": "TP-Link Technologies Co., Ltd.",
	"F4:F2:6D": "TP-Link Technologies Co., Ltd.",
	"B0:4E:26": "TP-Link Technologies Co., Ltd.",

	// Netgear
	"20:E5:2A": "Netgear",
	"A0:40:A0": "Netgear",
	"C0:3F:0E": "Netgear",

	// D-Link
	"00:05:5D": "D-Link Corporation",
	"1C:7E:E5": "D-Link International",

	// Linksys / Belkin
	"00:06:25": "Linksys",
	"C0:56:27": "Belkin International Inc.",

	// ASUS
	"00:0C:6E": "ASUSTek Computer Inc.",
	"2C:FD:A1": "ASUSTek Computer Inc.",

	// Juniper
	"00:05:85": "Juniper Networks",
	"3C:8A:B0": "Juniper Networks",

	// Samsung
	"00:16:32": "Samsung Electronics Co., Ltd",
	"8C:77:12": "Samsung Electronics Co., Ltd",
	"E8:50:8B": "Samsung Electronics Co., Ltd",

	// Xiaomi / Huawei / OnePlus
	"64:09:80": "Xiaomi Communications Co Ltd",
	"F8:A4:5F": "Xiaomi Communications Co Ltd",
	"00:18:82": "Huawei Technologies Co., Ltd",
	"48:DB:50": "Huawei Technologies Co., Ltd",
	"64:A2:F9": "OnePlus Technology (Shenzhen) Co., Ltd",

	// Google / Nest / Chromecast
	"54:60:09": "Google, Inc.",
	"F4:F5:D8": "Google, Inc.",
	"1C:F2:9A": "Google, Inc.",

	// Amazon (Echo, Fire, Ring)
	"44:65:0D": "Amazon Technologies Inc.",
	"FC:A1:83": "Amazon Technologies Inc.",
	"0C:47:C9": "Amazon Technologies Inc.",

	// Sonos / Roku
	"00:0E:58": "Sonos, Inc.",
	"5C:AA:FD": "Sonos, Inc.",
	"B0:A7:37": "Roku, Inc.",
	"DC:3A:5E": "Roku, Inc.",

	// Philips Lighting (Hue)
	"00:17:88": "Signify Netherlands B.V.",
	"EC:B5:FA": "Signify Netherlands B.V.",

	// NAS vendors
	"00:11:32": "Synology Incorporated",
	"90:09:D0": "Synology Incorporated",
	"24:5E:BE": "QNAP Systems, Inc.",
	"00:08:9B": "ICP Electronics Inc. (QNAP)",
	"00:90:A9": "Western Digital Corporation",

	// Printers
	"00:80:77": "Brother Industries, Ltd.",
	"30:05:5C": "Brother Industries, Ltd.",
	"00:1E:8F": "Canon Inc.",
	"18:0C:AC": "Canon Inc.",
	"00:26:AB": "Seiko Epson Corporation",
	"64:EB:8C": "Seiko Epson Corporation",
	"00:17:C8": "Kyocera Document Solutions Inc.",
	"00:00:74": "Ricoh Company, Ltd.",
	"00:15:99": "Lexmark International Inc.",
	"00:00:AA": "Xerox Corporation",

	// Cameras
	"44:19:B6": "Hangzhou Hikvision Digital Technology Co., Ltd.",
	"C0:56:E3": "Hangzhou Hikvision Digital Technology Co., Ltd.",
	"3C:EF:8C": "Zhejiang Dahua Technology Co., Ltd.",
	"9C:8E:CD": "Amcrest Technologies",
	"EC:71:DB": "Shenzhen Reolink Technology Co., Ltd.",
	"2C:AA:8E": "Wyze Labs Inc",

	// UPS / power
	"00:C0:B7": "American Power Conversion Corp",
	"28:29:86": "APC by Schneider Electric",
}
